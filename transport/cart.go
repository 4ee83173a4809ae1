package transport

import (
	"net/http"

	"github.com/google/uuid"

	cartmodel "healthcare/pkg/cart/domain/model"
)

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.products.CreateProduct(req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts()
	if err != nil {
		writeError(w, r, err)
		return
	}
	dtos := make([]productDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondProduct(w, r, productID)
}

func (h *Handler) archiveProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err = h.products.ArchiveProduct(productID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) receiveStock(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	h.productCommand(w, r, &req, func(id uuid.UUID) error {
		return h.products.ReceiveStock(id, req.Quantity)
	})
}

func (h *Handler) changePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	h.productCommand(w, r, &req, func(id uuid.UUID) error {
		return h.products.ChangeProductPrice(id, req.Price)
	})
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	h.productCommand(w, r, &req, func(id uuid.UUID) error {
		return h.products.SetAvailability(id, req.Available)
	})
}

// productCommand decodes req, runs command and answers with the updated product.
func (h *Handler) productCommand(w http.ResponseWriter, r *http.Request, req interface{}, command func(uuid.UUID) error) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err = readJSON(r, req); err != nil {
		writeError(w, r, err)
		return
	}
	if err = command(productID); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondProduct(w, r, productID)
}

func (h *Handler) respondProduct(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	product, err := h.products.GetProduct(productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(product))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cart, err := h.carts.GetCart(userID)
	h.respondCart(w, r, cart, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cart, err := h.carts.Clear(userID)
	h.respondCart(w, r, cart, err)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req addCartItemRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cart, err := h.carts.AddItem(userID, req.ProductID, req.Quantity)
	h.respondCart(w, r, cart, err)
}

func (h *Handler) setCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quantityRequest
	if err = readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cart, err := h.carts.SetItemQuantity(userID, productID, req.Quantity)
	h.respondCart(w, r, cart, err)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	productID, err := pathUUID(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	cart, err := h.carts.RemoveItem(userID, productID)
	h.respondCart(w, r, cart, err)
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, cart *cartmodel.Cart, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(cart))
}
