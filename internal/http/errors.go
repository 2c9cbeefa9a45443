package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/fitstore/internal/address"
	"github.com/fjod/go_cart/fitstore/internal/cart"
	"github.com/fjod/go_cart/fitstore/internal/catalog"
	"github.com/fjod/go_cart/fitstore/internal/checkout"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/fjod/go_cart/fitstore/internal/payment"
	"github.com/fjod/go_cart/fitstore/internal/session"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondErrorDetails(w, status, code, message, "")
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// toStatus classifies a domain error. The second value carries extra detail
// for the client, such as the checkout step that blocks an action.
func toStatus(err error) (*status.Status, string) {
	var (
		pe *checkout.PreconditionError
		se *checkout.SubmissionError
	)
	switch {
	case errors.As(err, &pe):
		return status.New(codes.FailedPrecondition, err.Error()), pe.Step.String()
	case errors.Is(err, checkout.ErrEmptyCart):
		return status.New(codes.FailedPrecondition, err.Error()), "CART"
	case errors.Is(err, checkout.ErrNoNextStep):
		return status.New(codes.FailedPrecondition, err.Error()), domain.StepReview.String()
	case errors.As(err, &se):
		return submissionStatus(se), string(se.Kind)
	case errors.Is(err, checkout.ErrOrderInProgress), errors.Is(err, session.ErrCheckoutInProgress):
		return status.New(codes.Aborted, err.Error()), ""
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, address.ErrInvalidAddress),
		errors.Is(err, payment.ErrUnknownMethod):
		return status.New(codes.InvalidArgument, err.Error()), ""
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, address.ErrNotFound):
		return status.New(codes.NotFound, err.Error()), ""
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrInvalidToken):
		return status.New(codes.Unauthenticated, err.Error()), ""
	default:
		return status.New(codes.Internal, "internal server error"), ""
	}
}

func submissionStatus(se *checkout.SubmissionError) *status.Status {
	switch se.Kind {
	case checkout.SubmissionRejected:
		return status.New(codes.PermissionDenied, se.Error())
	case checkout.SubmissionTimeout:
		return status.New(codes.DeadlineExceeded, se.Error())
	case checkout.SubmissionAborted:
		return status.New(codes.Canceled, se.Error())
	default:
		return status.New(codes.Unavailable, se.Error())
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	st, details := toStatus(err)
	if st.Code() == codes.Internal {
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
	}

	var httpStatus int
	var code string

	switch st.Code() {
	case codes.InvalidArgument:
		httpStatus = http.StatusBadRequest
		code = "invalid_argument"
	case codes.NotFound:
		httpStatus = http.StatusNotFound
		code = "not_found"
	case codes.Unauthenticated:
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case codes.FailedPrecondition:
		httpStatus = http.StatusPreconditionFailed
		code = "precondition_failed"
	case codes.Aborted:
		httpStatus = http.StatusConflict
		code = "in_progress"
	case codes.PermissionDenied:
		httpStatus = http.StatusPaymentRequired
		code = "order_rejected"
	case codes.Canceled:
		httpStatus = http.StatusRequestTimeout
		code = "canceled"
	case codes.Unavailable:
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case codes.DeadlineExceeded:
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
	}

	respondErrorDetails(w, httpStatus, code, st.Message(), details)
}
