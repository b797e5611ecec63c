package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"farmFresh/entities"
	"farmFresh/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/products.yaml
var catalogSeed []byte

type ProductRepository interface {
	Migrate(ctx context.Context) (err error)
	GetProductById(ctx context.Context, id string) (pModel models.Product_db, exists bool, err error)
	ListProducts(ctx context.Context, filter entities.ProductFilter) (prods []models.Product_db, err error)
}

type ProductRepo struct {
	db  *sql.DB
	log *zap.Logger
}

func NewProductRepository(conn *sql.DB, log *zap.Logger) (ProductRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &ProductRepo{
		db:  conn,
		log: log,
	}, nil
}

const createProductsTable = `CREATE TABLE IF NOT EXISTS Products (
	Id          TEXT PRIMARY KEY,
	Name        TEXT NOT NULL,
	Description TEXT NOT NULL,
	Category    TEXT NOT NULL,
	Price       NUMERIC(10,2) NOT NULL,
	Unit        TEXT NOT NULL,
	FarmName    TEXT NOT NULL,
	Image       TEXT NOT NULL,
	Organic     BOOLEAN NOT NULL,
	Quantity    INTEGER NOT NULL,
	InStock     BOOLEAN NOT NULL,
	FarmerId    TEXT NULL,
	Position    INTEGER NOT NULL
)`

const productColumns = "Id, Name, Description, Category, Price, Unit, FarmName, Image, Organic, Quantity, InStock, FarmerId, Position"

// Migrate creates the Products table and loads the static catalog into it
// when the table is empty.
func (p *ProductRepo) Migrate(ctx context.Context) (err error) {
	if _, err = p.db.ExecContext(ctx, createProductsTable); err != nil {
		p.log.Error("Migrate: create table", zap.Error(err))
		return models.ErrServerError
	}

	var count int
	if err = p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Products").Scan(&count); err != nil {
		p.log.Error("Migrate: count", zap.Error(err))
		return models.ErrServerError
	}
	if count > 0 {
		return nil
	}

	prods, err := LoadCatalogSeed()
	if err != nil {
		p.log.Error("Migrate: seed", zap.Error(err))
		return models.ErrServerError
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		p.log.Error("Migrate: begin", zap.Error(err))
		return models.ErrServerError
	}
	insert := "INSERT INTO Products (" + productColumns + ") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)"
	for i, pr := range prods {
		var farmerId sql.NullString
		if pr.FarmerId != "" {
			farmerId = sql.NullString{String: pr.FarmerId, Valid: true}
		}
		_, err = tx.ExecContext(ctx, insert,
			pr.Id, pr.Name, pr.Description, string(pr.Category), pr.Price.String(),
			pr.Unit, pr.FarmName, pr.Image, pr.Organic, pr.Quantity, pr.InStock,
			farmerId, i)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				p.log.Error("Migrate: rollback", zap.Error(rbErr))
			}
			p.log.Error("Migrate: insert", zap.String("id", pr.Id), zap.Error(err))
			return models.ErrServerError
		}
	}
	if err = tx.Commit(); err != nil {
		p.log.Error("Migrate: commit", zap.Error(err))
		return models.ErrServerError
	}
	p.log.Info("catalog seeded", zap.Int("products", len(prods)))
	return nil
}

func (p *ProductRepo) GetProductById(ctx context.Context, id string) (pModel models.Product_db, exists bool, err error) {
	row := p.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM Products WHERE Id = $1", id)
	pModel, err = scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
		} else {
			p.log.Error("GetProductById", zap.String("id", id), zap.Error(err))
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (p *ProductRepo) ListProducts(ctx context.Context, filter entities.ProductFilter) (prods []models.Product_db, err error) {
	query := "SELECT " + productColumns + " FROM Products"
	conds := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if c := strings.TrimSpace(filter.Category); c != "" && c != "all" {
		conds = append(conds, "Category = "+arg(c))
	}
	if filter.Organic != nil {
		conds = append(conds, "Organic = "+arg(*filter.Organic))
	}
	if filter.InStock != nil {
		conds = append(conds, "InStock = "+arg(*filter.InStock))
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		like := "%" + q + "%"
		conds = append(conds, "(LOWER(Name) LIKE "+arg(like)+" OR LOWER(FarmName) LIKE "+arg(like)+")")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY Position"

	rows, e := p.db.QueryContext(ctx, query, args...)
	if e != nil {
		p.log.Error("ListProducts[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()

	prods = []models.Product_db{}
	for rows.Next() {
		var prod models.Product_db
		prod, err = scanProduct(rows)
		if err != nil {
			p.log.Error("ListProducts[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		prods = append(prods, prod)
	}
	if err = rows.Err(); err != nil {
		p.log.Error("ListProducts[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (pModel models.Product_db, err error) {
	err = row.Scan(&pModel.Id, &pModel.Name, &pModel.Description, &pModel.Category,
		&pModel.Price, &pModel.Unit, &pModel.FarmName, &pModel.Image, &pModel.Organic,
		&pModel.Quantity, &pModel.InStock, &pModel.FarmerId, &pModel.Position)
	return
}

type catalogFile struct {
	Products []struct {
		Id          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Category    string `yaml:"category"`
		Price       string `yaml:"price"`
		Unit        string `yaml:"unit"`
		FarmName    string `yaml:"farmName"`
		Image       string `yaml:"image"`
		Organic     bool   `yaml:"organic"`
		InStock     bool   `yaml:"inStock"`
		Quantity    int    `yaml:"quantity"`
		FarmerId    string `yaml:"farmerId"`
	} `yaml:"products"`
}

// LoadCatalogSeed parses the embedded static catalog.
func LoadCatalogSeed() ([]entities.Product, error) {
	var f catalogFile
	if err := yaml.Unmarshal(catalogSeed, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	prods := make([]entities.Product, 0, len(f.Products))
	seen := make(map[string]bool, len(f.Products))
	for _, raw := range f.Products {
		if seen[raw.Id] {
			return nil, fmt.Errorf("duplicate product id %q", raw.Id)
		}
		seen[raw.Id] = true

		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s: price: %w", raw.Id, err)
		}
		cat := entities.Category(raw.Category)
		if !cat.Valid() {
			return nil, fmt.Errorf("product %s: unknown category %q", raw.Id, raw.Category)
		}
		prods = append(prods, entities.Product{
			Id:          raw.Id,
			Name:        raw.Name,
			Description: raw.Description,
			Category:    cat,
			Price:       price,
			Unit:        raw.Unit,
			FarmName:    raw.FarmName,
			Image:       raw.Image,
			Organic:     raw.Organic,
			Quantity:    raw.Quantity,
			InStock:     raw.InStock,
			FarmerId:    raw.FarmerId,
		})
	}
	return prods, nil
}

// ToEntity converts a stored row into the catalog product.
func ToEntity(pModel models.Product_db) (entities.Product, error) {
	price, err := decimal.NewFromString(pModel.Price)
	if err != nil {
		return entities.Product{}, fmt.Errorf("product %s: price %q: %w", pModel.Id, pModel.Price, err)
	}
	return entities.Product{
		Id:          pModel.Id,
		Name:        pModel.Name,
		Description: pModel.Description,
		Category:    entities.Category(pModel.Category),
		Price:       price,
		Unit:        pModel.Unit,
		FarmName:    pModel.FarmName,
		Image:       pModel.Image,
		Organic:     pModel.Organic,
		Quantity:    pModel.Quantity,
		InStock:     pModel.InStock,
		FarmerId:    pModel.FarmerId.String,
	}, nil
}
