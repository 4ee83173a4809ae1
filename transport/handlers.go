package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	cartservice "healthcare/pkg/cart/domain/service"
	orderservice "healthcare/pkg/order/domain/service"
	planservice "healthcare/pkg/plan/domain/service"
	userservice "healthcare/pkg/user/domain/service"
)

type Handler struct {
	users    userservice.UserService
	plans    planservice.PlanService
	products cartservice.ProductService
	carts    cartservice.CartService
	orders   orderservice.OrderService
}

func Router(
	users userservice.UserService,
	plans planservice.PlanService,
	products cartservice.ProductService,
	carts cartservice.CartService,
	orders orderservice.OrderService,
) http.Handler {
	h := &Handler{
		users:    users,
		plans:    plans,
		products: products,
		carts:    carts,
		orders:   orders,
	}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()

	s.HandleFunc("/users", h.registerUser).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}", h.getUser).Methods(http.MethodGet)
	s.HandleFunc("/users/{userID}/subscription", h.setSubscription).Methods(http.MethodPut)

	s.HandleFunc("/users/{userID}/diet-plan", h.generateDietPlan).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/diet-plan", h.getDietPlan).Methods(http.MethodGet)
	s.HandleFunc("/users/{userID}/diet-plan", h.clearDietPlan).Methods(http.MethodDelete)
	s.HandleFunc("/users/{userID}/diet-plan/reset", h.resetDietProgress).Methods(http.MethodPatch)
	s.HandleFunc("/users/{userID}/diet-plan/reviews", h.submitDietReview).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/diet-plan/weeks/{week}/days/{day}/finished", h.markDietDayFinished).Methods(http.MethodPatch)
	s.HandleFunc("/users/{userID}/diet-plan/weeks/{week}/days/{day}/meals/{slot}", h.shuffleMeal).Methods(http.MethodPatch)

	s.HandleFunc("/users/{userID}/exercise-plan", h.generateExercisePlan).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/exercise-plan", h.getExercisePlan).Methods(http.MethodGet)
	s.HandleFunc("/users/{userID}/exercise-plan", h.clearExercisePlan).Methods(http.MethodDelete)
	s.HandleFunc("/users/{userID}/exercise-plan/reset", h.resetExerciseProgress).Methods(http.MethodPatch)
	s.HandleFunc("/users/{userID}/exercise-plan/reviews", h.submitExerciseReview).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/exercise-plan/weeks/{week}/days/{day}/finished", h.markExerciseDayFinished).Methods(http.MethodPatch)
	s.HandleFunc("/users/{userID}/exercise-plan/weeks/{week}/days/{day}/workouts", h.customizeExerciseDay).Methods(http.MethodPut)
	s.HandleFunc("/exercise-suggestions", h.suggestWorkouts).Methods(http.MethodGet)

	s.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products/{productID}", h.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{productID}", h.archiveProduct).Methods(http.MethodDelete)
	s.HandleFunc("/products/{productID}/stock", h.receiveStock).Methods(http.MethodPost)
	s.HandleFunc("/products/{productID}/price", h.changePrice).Methods(http.MethodPut)
	s.HandleFunc("/products/{productID}/availability", h.setAvailability).Methods(http.MethodPut)

	s.HandleFunc("/users/{userID}/cart", h.getCart).Methods(http.MethodGet)
	s.HandleFunc("/users/{userID}/cart", h.clearCart).Methods(http.MethodDelete)
	s.HandleFunc("/users/{userID}/cart/items", h.addCartItem).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/cart/items/{productID}", h.setCartItemQuantity).Methods(http.MethodPut)
	s.HandleFunc("/users/{userID}/cart/items/{productID}", h.removeCartItem).Methods(http.MethodDelete)

	s.HandleFunc("/users/{userID}/orders", h.checkout).Methods(http.MethodPost)
	s.HandleFunc("/users/{userID}/orders", h.listOrders).Methods(http.MethodGet)

	return logMiddleware(r)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
