package models

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrBadRequest = errors.New("bad request")
var ErrUnautorized = errors.New("unautorized")
var ErrServerError = errors.New("server error")
var ErrNotFoundError = errors.New("not found")
var ErrNotAllowed = errors.New("not acceptable")
var ErrForbidden = errors.New("forbidden")

// ValidationError is a form-boundary rejection carrying the message shown to
// the user. It matches ErrBadRequest with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=customer farmer"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ProductForm struct {
	Name        string          `json:"name" validate:"min=2"`
	Description string          `json:"description" validate:"min=10"`
	Category    string          `json:"category" validate:"oneof=vegetable fruit grain"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"required"`
	FarmName    string          `json:"farmName" validate:"min=2"`
	Image       string          `json:"image"`
	Organic     bool            `json:"organic"`
	Quantity    float64         `json:"quantity" validate:"gt=0,whole"`
	InStock     *bool           `json:"inStock"`
}

type SoilForm struct {
	FarmName string  `json:"farmName" validate:"min=2"`
	SoilType string  `json:"soilType" validate:"required,oneof=sandy clay loam silt peat chalk"`
	PH       float64 `json:"ph" validate:"gte=0,lte=14"`
	Location string  `json:"location" validate:"min=2"`
}

type Product_db struct {
	Id          string         `db:"Id"`
	Name        string         `db:"Name"`
	Description string         `db:"Description"`
	Category    string         `db:"Category"`
	Price       string         `db:"Price"`
	Unit        string         `db:"Unit"`
	FarmName    string         `db:"FarmName"`
	Image       string         `db:"Image"`
	Organic     bool           `db:"Organic"`
	Quantity    int            `db:"Quantity"`
	InStock     bool           `db:"InStock"`
	FarmerId    sql.NullString `db:"FarmerId"`
	Position    int            `db:"Position"`
}

type User_db struct {
	Id           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
}
