// Catalog HTTP handlers.
//
// This file exposes read-only endpoints for operators and plans:
//   - GET /operators                      (list, ETag support)
//   - GET /operators/{code}               (lookup by code)
//   - GET /plans                          (list, ETag support)
//   - GET /plans/operator/{operatorId}    (active plans of one operator)
//   - GET /plans/{id}                     (single plan)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recharge-backend/internal/services"
	"github.com/tbourn/go-recharge-backend/internal/utils"
)

// ListOperators godoc
// @ID          listOperators
// @Summary     List operators
// @Description Returns every operator in insertion order. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Catalog
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"operators:4:4\")
//
// @Success     200  {array}  domain.Operator
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /operators [get]
func (h *Handlers) ListOperators(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if n, maxID, err := h.catalog.OperatorsVersion(ctx); err == nil {
		if notModified(c, fmt.Sprintf(`W/"operators:%d:%d"`, n, maxID)) {
			return
		}
	}

	ops, err := h.catalog.Operators(ctx)
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, ops)
}

// GetOperator godoc
// @ID          getOperatorByCode
// @Summary     Get operator by code
// @Tags        Catalog
// @Produce     json
//
// @Param       code  path  string  true  "Operator code"  example(jio)
//
// @Success     200  {object} domain.Operator
// @Failure     404  {object} handlers.ErrorResponse "Operator not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /operators/{code} [get]
func (h *Handlers) GetOperator(c *gin.Context) {
	op, err := h.catalog.OperatorByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrOperatorNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "operator not found")
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, op)
}

// ListPlans godoc
// @ID          listPlans
// @Summary     List all plans
// @Description Returns every plan, including inactive ones. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Catalog
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"plans:20:20\")
//
// @Success     200  {array}  domain.RechargePlan
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	ctx := c.Request.Context()

	if n, maxID, err := h.catalog.PlansVersion(ctx); err == nil {
		if notModified(c, fmt.Sprintf(`W/"plans:%d:%d"`, n, maxID)) {
			return
		}
	}

	plans, err := h.catalog.Plans(ctx)
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, plans)
}

// ListPlansByOperator godoc
// @ID          listPlansByOperator
// @Summary     List active plans of an operator
// @Description Unknown operators yield an empty array.
// @Tags        Catalog
// @Produce     json
//
// @Param       operatorId  path  int  true  "Operator ID"  minimum(1) example(1)
//
// @Success     200  {array}  domain.RechargePlan
// @Failure     400  {object} handlers.ErrorResponse "Invalid operator ID"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /plans/operator/{operatorId} [get]
func (h *Handlers) ListPlansByOperator(c *gin.Context) {
	id, err := utils.ParsePositiveID(c.Param("operatorId"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "invalid operator id")
		return
	}
	plans, err := h.catalog.PlansByOperator(c.Request.Context(), id)
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, plans)
}

// GetPlan godoc
// @ID          getPlan
// @Summary     Get plan by id
// @Tags        Catalog
// @Produce     json
//
// @Param       id  path  int  true  "Plan ID"  minimum(1) example(1)
//
// @Success     200  {object} domain.RechargePlan
// @Failure     400  {object} handlers.ErrorResponse "Invalid plan ID"
// @Failure     404  {object} handlers.ErrorResponse "Plan not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /plans/{id} [get]
func (h *Handlers) GetPlan(c *gin.Context) {
	id, err := utils.ParsePositiveID(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "invalid plan id")
		return
	}
	p, err := h.catalog.Plan(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "plan not found")
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// notModified sets the ETag header and answers 304 when If-None-Match
// matches it.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
