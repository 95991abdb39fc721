package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

// Payload carries the response keys merged next to "status" in the envelope.
type Payload map[string]any

// WriteSuccess emits a 200 envelope: {"status": true, ...payload}.
func WriteSuccess(w http.ResponseWriter, payload Payload) {
	WriteSuccessStatus(w, http.StatusOK, payload)
}

// WriteSuccessStatus emits a success envelope with an explicit status code.
func WriteSuccessStatus(w http.ResponseWriter, status int, payload Payload) {
	body := map[string]any{"status": true}
	for k, v := range payload {
		if k == "status" {
			continue
		}
		body[k] = v
	}
	writeJSON(w, status, body)
}

// WriteError emits {"status": false, "error": ...} where error is the public
// message string, or the field->messages map for validation failures.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	var errorValue any = msg
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			errorValue = details
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, map[string]any{
		"status": false,
		"error":  errorValue,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
