package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryGrain     Category = "grain"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{CategoryVegetable, CategoryFruit, CategoryGrain}

func (c Category) Valid() bool {
	switch c {
	case CategoryVegetable, CategoryFruit, CategoryGrain:
		return true
	}
	return false
}

type Product struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	FarmName    string          `json:"farmName"`
	Image       string          `json:"image"`
	Organic     bool            `json:"organic"`
	Quantity    int             `json:"quantity"`
	InStock     bool            `json:"inStock"`
	FarmerId    string          `json:"farmerId,omitempty"`
}

type ProductFilter struct {
	Category string
	Organic  *bool
	InStock  *bool
	Query    string
}

type FilterMetadata struct {
	Categories   []CategoryCount `json:"categories"`
	PriceRange   PriceRange      `json:"priceRange"`
	Availability Availability    `json:"availability"`
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type Availability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleFarmer   Role = "farmer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleFarmer:
		return true
	}
	return false
}

// Home returns the landing route for the role.
func (r Role) Home() string {
	switch r {
	case RoleFarmer:
		return "/farmers"
	default:
		return "/"
	}
}

type User struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type AuthResponse struct {
	User          User           `json:"user"`
	Redirect      string         `json:"redirect"`
	Notifications []Notification `json:"notifications,omitempty"`
}

type SoilType string

const (
	SoilSandy SoilType = "sandy"
	SoilClay  SoilType = "clay"
	SoilLoam  SoilType = "loam"
	SoilSilt  SoilType = "silt"
	SoilPeat  SoilType = "peat"
	SoilChalk SoilType = "chalk"
)

func (s SoilType) Valid() bool {
	switch s {
	case SoilSandy, SoilClay, SoilLoam, SoilSilt, SoilPeat, SoilChalk:
		return true
	}
	return false
}

type SoilData struct {
	Id            string    `json:"id"`
	FarmerId      string    `json:"farmerId"`
	FarmName      string    `json:"farmName"`
	SoilType      SoilType  `json:"soilType"`
	PH            float64   `json:"ph"`
	Nitrogen      float64   `json:"nitrogen"`
	Phosphorus    float64   `json:"phosphorus"`
	Potassium     float64   `json:"potassium"`
	Moisture      float64   `json:"moisture"`
	OrganicMatter float64   `json:"organicMatter"`
	Location      string    `json:"location"`
	Date          time.Time `json:"date"`
}

type Suitability string

const (
	SuitabilityHigh   Suitability = "high"
	SuitabilityMedium Suitability = "medium"
	SuitabilityLow    Suitability = "low"
)

type WeatherConditions struct {
	Temperature string `json:"temperature"`
	Rainfall    string `json:"rainfall"`
	Sunlight    string `json:"sunlight"`
	Humidity    string `json:"humidity"`
}

type Fertilizer struct {
	Type        string `json:"type"`
	NPKRatio    string `json:"npkRatio"`
	Application string `json:"application"`
}

type Pesticide struct {
	Type        string `json:"type"`
	TargetPests string `json:"targetPests"`
	Application string `json:"application"`
}

type CropRecommendation struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Suitability Suitability       `json:"suitability"`
	Weather     WeatherConditions `json:"weatherConditions"`
	Fertilizers []Fertilizer      `json:"fertilizers"`
	Pesticides  []Pesticide       `json:"pesticides"`
}

type SoilAnalysis struct {
	Soil            SoilData             `json:"soil"`
	Recommendations []CropRecommendation `json:"recommendations"`
}

type FarmerDashboard struct {
	Products []Product     `json:"products"`
	Analysis *SoilAnalysis `json:"analysis,omitempty"`
}

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}
