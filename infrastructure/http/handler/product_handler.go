package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/http/validator"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

// multipartMemory is how much of an upload is kept in memory before spilling to disk.
const multipartMemory = 1 << 20

type ProductHandler struct {
	productUseCase inbound.ProductUseCase
	validator      *validator.Validator
	maxUploadBytes int64
	logger         logger.Logger
}

func NewProductHandler(productUseCase inbound.ProductUseCase, v *validator.Validator, maxUploadBytes int64, log logger.Logger) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		validator:      v,
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := listRequest(r)
	if err == nil {
		err = h.validator.Struct(list)
	}
	if err != nil {
		response.Fail(w, err)
		return
	}
	req := inbound.ListProductsRequest{ListRequest: list}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Fail(w, apperror.Validation("category_id must be an integer", err))
			return
		}
		req.CategoryID = &id
	}

	products, err := h.productUseCase.ListProducts(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, products)
}

// Create reads a multipart form with fields name, category_id, weight, price
// and the file field image.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		response.Fail(w, apperror.Validation("Invalid multipart body", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := productForm(r)
	if err != nil {
		response.Fail(w, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Fail(w, apperror.Validation("image is required", err))
		return
	}
	defer file.Close()
	req.ImageFilename = header.Filename
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		response.Fail(w, err)
		return
	}

	product, err := h.productUseCase.CreateProduct(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, product)
}

func productForm(r *http.Request) (inbound.CreateProductRequest, error) {
	req := inbound.CreateProductRequest{Name: r.FormValue("name")}

	ints := []struct {
		field string
		set   func(int64)
	}{
		{"category_id", func(v int64) { req.CategoryID = v }},
		{"weight", func(v int64) { req.Weight = int(v) }},
		{"price", func(v int64) { req.Price = int(v) }},
	}
	for _, f := range ints {
		raw := r.FormValue(f.field)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return req, apperror.Validation(f.field+" must be an integer", err)
		}
		f.set(v)
	}
	return req, nil
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Fail(w, err)
		return
	}
	if err := h.productUseCase.DeleteProduct(r.Context(), id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}
