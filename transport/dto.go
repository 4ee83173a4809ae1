package transport

import (
	"time"

	"github.com/google/uuid"

	cartmodel "healthcare/pkg/cart/domain/model"
	ordermodel "healthcare/pkg/order/domain/model"
	planmodel "healthcare/pkg/plan/domain/model"
	usermodel "healthcare/pkg/user/domain/model"
)

// Prices travel as integer cents.

type cartItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type cartDTO struct {
	UserID     uuid.UUID     `json:"userId"`
	Items      []cartItemDTO `json:"items"`
	TotalPrice int64         `json:"totalPrice"`
}

func toCartDTO(c *cartmodel.Cart) cartDTO {
	items := make([]cartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.PriceCents,
		})
	}
	return cartDTO{UserID: c.UserID, Items: items, TotalPrice: c.TotalPriceCents}
}

var productStatusNames = map[cartmodel.ProductStatus]string{
	cartmodel.Available:   "available",
	cartmodel.Unavailable: "unavailable",
	cartmodel.Archived:    "archived",
}

type productDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	Available   bool      `json:"available"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductDTO(p *cartmodel.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.PriceCents,
		Stock:       p.StockQuantity,
		Status:      productStatusNames[p.Status],
		Available:   p.Status == cartmodel.Available,
		UpdatedAt:   p.UpdatedAt,
	}
}

type userDTO struct {
	ID                   uuid.UUID          `json:"id"`
	Email                string             `json:"email"`
	Goal                 string             `json:"goal"`
	Subscribed           bool               `json:"subscribed"`
	Weight               float64            `json:"weight"`
	Details              string             `json:"details"`
	DietRestrictions     []string           `json:"dietRestrictions"`
	HasDietPlan          bool               `json:"hasDietPlan"`
	HasReviewedDiet      bool               `json:"hasReviewedDiet"`
	DietReviews          []planmodel.Review `json:"dietReviews"`
	ExerciseRestrictions []string           `json:"exerciseRestrictions"`
	HasExercisePlan      bool               `json:"hasExercisePlan"`
	HasReviewedExercise  bool               `json:"hasReviewedExercise"`
	ExerciseReviews      []planmodel.Review `json:"exerciseReviews"`
}

func toUserDTO(u *usermodel.User) userDTO {
	return userDTO{
		ID:                   u.ID,
		Email:                u.Email,
		Goal:                 u.Goal,
		Subscribed:           u.Subscribed,
		Weight:               u.Weight,
		Details:              u.Details,
		DietRestrictions:     nonNil(u.DietRestrictions),
		HasDietPlan:          u.DietPlan != nil,
		HasReviewedDiet:      u.HasReviewedDiet,
		DietReviews:          nonNilReviews(u.DietReviews),
		ExerciseRestrictions: nonNil(u.ExerciseRestrictions),
		HasExercisePlan:      u.ExercisePlan != nil,
		HasReviewedExercise:  u.HasReviewedExercise,
		ExerciseReviews:      nonNilReviews(u.ExerciseReviews),
	}
}

func nonNilReviews(reviews []planmodel.Review) []planmodel.Review {
	if reviews == nil {
		return []planmodel.Review{}
	}
	return reviews
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type registerUserRequest struct {
	Email string `json:"email"`
}

type subscriptionRequest struct {
	Subscribed bool `json:"subscribed"`
}

// generatePlanRequest accepts either a list of restrictions or a single one.
type generatePlanRequest struct {
	Goal         string   `json:"goal"`
	Restriction  string   `json:"restriction"`
	Restrictions []string `json:"restrictions"`
}

func (r generatePlanRequest) tags() []string {
	if len(r.Restrictions) == 0 && r.Restriction != "" {
		return []string{r.Restriction}
	}
	return r.Restrictions
}

type shuffleMealResponse struct {
	Slot string `json:"slot"`
	Meal string `json:"meal"`
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type priceRequest struct {
	Price int64 `json:"price"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type reviewRequest struct {
	Review  string  `json:"review"`
	Weight  float64 `json:"weight"`
	Details string  `json:"details"`
}

func (r reviewRequest) submission() planmodel.ReviewSubmission {
	return planmodel.ReviewSubmission{Review: r.Review, Weight: r.Weight, Details: r.Details}
}

type customizeDayRequest struct {
	Workouts []string `json:"workouts"`
}

type suggestionsResponse struct {
	Exercises []string `json:"exercises"`
}

type orderItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type orderDTO struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"userId"`
	Items      []orderItemDTO `json:"items"`
	TotalPrice int64          `json:"totalPrice"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toOrderDTO(o *ordermodel.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.PriceCents,
		})
	}
	return orderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		Items:      items,
		TotalPrice: o.TotalPriceCents,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}
