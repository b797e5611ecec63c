package services

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"farmFresh/entities"
	"farmFresh/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names so errors match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f) && f <= math.MaxInt32
	})
	return v
}

// Messages shown to the user, keyed by "field.tag" or by field alone.
var formMessages = map[string]string{
	"name.min":                "Name must be at least 2 characters",
	"name.required":           "Name is required",
	"description":             "Description must be at least 10 characters",
	"category":                "Category must be vegetable, fruit or grain",
	"price":                   "Price must be positive",
	"unit":                    "Unit is required",
	"farmName":                "Farm name is required",
	"quantity":                "Quantity must be a positive number",
	"soilType.required":       "Soil type is required",
	"soilType.oneof":          "Soil type must be sandy, clay, loam, silt, peat or chalk",
	"ph":                      "pH must be between 0 and 14",
	"location":                "Location is required",
	"email.required":          "Email is required",
	"email.email":             "Email must be a valid email address",
	"password":                "Password is required",
	"confirmPassword.eqfield": "Passwords do not match",
	"role":                    "Role must be customer or farmer",
}

// validateForm runs the struct tags of form and turns the first failure into
// a ValidationError.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.ErrBadRequest
	}
	fe := verrs[0]
	msg, ok := formMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg, ok = formMessages[fe.Field()]
	}
	if !ok {
		msg = fe.Field() + " is invalid"
	}
	return models.Invalid(fe.Field(), msg)
}

// validateProductForm checks a farmer listing form and returns the product it
// describes. Id and FarmerId are left for the caller.
func validateProductForm(form models.ProductForm) (p entities.Product, err error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Category = strings.TrimSpace(form.Category)
	form.Unit = strings.TrimSpace(form.Unit)
	form.FarmName = strings.TrimSpace(form.FarmName)
	form.Image = strings.TrimSpace(form.Image)
	if err = validateForm(form); err != nil {
		return
	}

	inStock := true
	if form.InStock != nil {
		inStock = *form.InStock
	}
	p = entities.Product{
		Name:        form.Name,
		Description: form.Description,
		Category:    entities.Category(form.Category),
		Price:       form.Price,
		Unit:        form.Unit,
		FarmName:    form.FarmName,
		Image:       form.Image,
		Organic:     form.Organic,
		Quantity:    int(form.Quantity),
		InStock:     inStock,
	}
	return p, nil
}

func validateSoilForm(form models.SoilForm) (farmName string, soil entities.SoilType, location string, err error) {
	form.FarmName = strings.TrimSpace(form.FarmName)
	form.SoilType = strings.ToLower(strings.TrimSpace(form.SoilType))
	form.Location = strings.TrimSpace(form.Location)
	if err = validateForm(form); err != nil {
		return "", "", "", err
	}
	return form.FarmName, entities.SoilType(form.SoilType), form.Location, nil
}

// validateSignup normalizes a signup form and checks it.
func validateSignup(req models.SignupRequest) (models.SignupRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	return req, validateForm(req)
}
