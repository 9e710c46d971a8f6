package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

type UserHandler struct {
	userManagementUseCase inbound.UserManagementUseCase
	logger                logger.Logger
}

func NewUserHandler(userManagementUseCase inbound.UserManagementUseCase, log logger.Logger) *UserHandler {
	return &UserHandler{
		userManagementUseCase: userManagementUseCase,
		logger:                log,
	}
}

// Delete removes a user together with their refresh token.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Fail(w, apperror.Validation("id must be a UUID", err))
		return
	}
	if err := h.userManagementUseCase.DeleteUser(r.Context(), id); err != nil {
		fail(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}
