package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/http/validator"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

type CategoryHandler struct {
	categoryUseCase inbound.CategoryUseCase
	validator       *validator.Validator
	logger          logger.Logger
}

func NewCategoryHandler(categoryUseCase inbound.CategoryUseCase, v *validator.Validator, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
		validator:       v,
		logger:          log,
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r)
	if err == nil {
		err = h.validator.Struct(req)
	}
	if err != nil {
		response.Fail(w, err)
		return
	}

	categories, err := h.categoryUseCase.ListCategories(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, apperror.Validation("Invalid request body", err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Fail(w, err)
		return
	}

	category, err := h.categoryUseCase.CreateCategory(r.Context(), req)
	if err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Fail(w, err)
		return
	}
	if err := h.categoryUseCase.DeleteCategory(r.Context(), id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}
