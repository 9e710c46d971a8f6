package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
	"github.com/pizzastore/pizzastore/pkg/httperror"
)

// fail writes err to the client and logs it when it is a server-side failure.
func fail(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if httperror.IsServerError(err) {
		log.Error(r.Context(), "Request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"code":   string(apperror.CodeOf(err)),
		})
	}
	response.Fail(w, err)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("id must be a positive integer", err)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperror.Validation(name+" must be an integer", err)
	}
	return v, true, nil
}

func listRequest(r *http.Request) (inbound.ListRequest, error) {
	var req inbound.ListRequest
	var err error
	if req.Limit, _, err = queryInt(r, "limit"); err != nil {
		return req, err
	}
	if req.Offset, _, err = queryInt(r, "offset"); err != nil {
		return req, err
	}
	return req, nil
}
