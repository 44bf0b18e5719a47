package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/minichain/node/business/web/errs"
)

func TestTrusted(t *testing.T) {
	err := fmt.Errorf("handler: %w", errs.NewTrusted(errors.New("empty node list"), http.StatusBadRequest))

	if !errs.IsTrusted(err) {
		t.Fatal("Should find the trusted error in the chain.")
	}

	trs := errs.GetTrusted(err)
	if trs.Status != http.StatusBadRequest || trs.Error() != "empty node list" {
		t.Fatalf("Should keep the status and message : got %d %q", trs.Status, trs.Error())
	}

	if errs.GetTrusted(errors.New("plain")) != nil {
		t.Fatal("Should not find a trusted error in a plain error.")
	}
}

func TestBadRequestUnwraps(t *testing.T) {
	base := errors.New("amount must be non-negative")
	err := errs.BadRequest(base)

	if !errors.Is(err, base) {
		t.Fatal("Should reach the wrapped error.")
	}

	if errs.GetTrusted(err).Status != http.StatusBadRequest {
		t.Fatal("Should carry a 400 status.")
	}
}
