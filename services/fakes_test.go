package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"

	"go.uber.org/zap"
)

type fakeProductRepo struct {
	rows []models.Product_db
	err  error
}

func (f *fakeProductRepo) Migrate(ctx context.Context) error { return f.err }

func (f *fakeProductRepo) GetProductById(ctx context.Context, id string) (models.Product_db, bool, error) {
	if f.err != nil {
		return models.Product_db{}, false, f.err
	}
	for _, r := range f.rows {
		if r.Id == id {
			return r, true, nil
		}
	}
	return models.Product_db{}, false, nil
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]models.Product_db, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Product_db{}
	for _, r := range f.rows {
		if filter.Category != "" && filter.Category != "all" && r.Category != filter.Category {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func catalogRows() []models.Product_db {
	return []models.Product_db{
		{Id: "1", Name: "Fresh Organic Carrots", Category: "vegetable", Price: "2.99", Unit: "bunch", FarmName: "Green Valley Farm", Organic: true, Quantity: 100, InStock: true},
		{Id: "4", Name: "Broccoli", Category: "vegetable", Price: "2.25", Unit: "head", FarmName: "Green Valley Farm", Organic: true, Quantity: 100, InStock: true},
		{Id: "10", Name: "Organic Apples", Category: "fruit", Price: "3.99", Unit: "lb", FarmName: "Orchard Hills", Organic: true, Quantity: 100, InStock: true},
	}
}

// fakeCartRepo copies carts in and out so callers never share slices with
// the store, like the JSON round trip in redis.
type fakeCartRepo struct {
	carts map[string]entities.Cart
	sets  int
	err   error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]entities.Cart{}}
}

func copyCart(c entities.Cart) entities.Cart {
	items := make([]entities.CartItem, len(c.Items))
	copy(items, c.Items)
	return entities.Cart{Items: items, IsOpen: c.IsOpen}
}

func (f *fakeCartRepo) SetCart(ctx context.Context, id string, cart entities.Cart) error {
	if f.err != nil {
		return f.err
	}
	f.sets++
	f.carts[id] = copyCart(cart)
	return nil
}

func (f *fakeCartRepo) GetCart(ctx context.Context, id string) (entities.Cart, error) {
	if f.err != nil {
		return entities.Cart{}, f.err
	}
	return copyCart(f.carts[id]), nil
}

func (f *fakeCartRepo) DeleteCart(ctx context.Context, id string) error {
	delete(f.carts, id)
	return f.err
}

type fakeSessionRepo struct {
	sessions map[string]entities.User
	ttls     map[string]time.Duration
	next     int
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]entities.User{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, user entities.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.next++
	id := "session-" + strconv.Itoa(f.next)
	f.sessions[id] = user
	return id, nil
}

func (f *fakeSessionRepo) GetSession(ctx context.Context, id string) (entities.User, bool, error) {
	if f.err != nil {
		return entities.User{}, false, f.err
	}
	u, ok := f.sessions[id]
	return u, ok, nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return f.err
}

func (f *fakeSessionRepo) RefreshSession(ctx context.Context, id string, ttl time.Duration) error {
	f.ttls[id] = ttl
	return f.err
}

type fakeFarmerRepo struct {
	products map[string][]entities.Product
	soil     map[string]entities.SoilAnalysis
	err      error
}

func newFakeFarmerRepo() *fakeFarmerRepo {
	return &fakeFarmerRepo{products: map[string][]entities.Product{}, soil: map[string]entities.SoilAnalysis{}}
}

func (f *fakeFarmerRepo) GetProducts(ctx context.Context, farmerId string) ([]entities.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.Product, len(f.products[farmerId]))
	copy(out, f.products[farmerId])
	return out, nil
}

func (f *fakeFarmerRepo) SetProducts(ctx context.Context, farmerId string, prods []entities.Product) error {
	if f.err != nil {
		return f.err
	}
	stored := make([]entities.Product, len(prods))
	copy(stored, prods)
	f.products[farmerId] = stored
	return nil
}

func (f *fakeFarmerRepo) GetSoilAnalysis(ctx context.Context, farmerId string) (entities.SoilAnalysis, bool, error) {
	if f.err != nil {
		return entities.SoilAnalysis{}, false, f.err
	}
	a, ok := f.soil[farmerId]
	return a, ok, nil
}

func (f *fakeFarmerRepo) SetSoilAnalysis(ctx context.Context, farmerId string, a entities.SoilAnalysis) error {
	if f.err != nil {
		return f.err
	}
	f.soil[farmerId] = a
	return nil
}

type fakeCategoryRepo struct {
	counts []entities.CategoryCount
	lo, hi string
	av     entities.Availability
	err    error
}

func (f *fakeCategoryRepo) CategoryCounts(ctx context.Context) ([]entities.CategoryCount, error) {
	return f.counts, f.err
}

func (f *fakeCategoryRepo) PriceBounds(ctx context.Context) (string, string, bool, error) {
	if f.err != nil {
		return "", "", false, f.err
	}
	return f.lo, f.hi, f.lo != "", nil
}

func (f *fakeCategoryRepo) Availability(ctx context.Context) (entities.Availability, error) {
	return f.av, f.err
}

func testNotifier() notify.Notifier {
	return notify.NewLogger(zap.NewNop())
}
