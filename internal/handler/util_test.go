package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarly-ai/paper-agent/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.InvalidInput("bad"), http.StatusBadRequest},
		{apperr.NotFound("gone"), http.StatusNotFound},
		{apperr.InvalidState("wrong stage"), http.StatusConflict},
		{apperr.ErrEmptyContent, http.StatusNotFound},
		{apperr.Generation(assert.AnError, "section abstract"), http.StatusBadGateway},
		{apperr.Storage(assert.AnError, "disk"), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), "error %v", c.err)
	}
}
