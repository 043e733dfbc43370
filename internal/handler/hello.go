package handler

import (
	"github.com/ayxworxfr/gestao_admin/pkg/context"
)

func HelloHandler(c *context.Context) *context.Response {
	return context.Success("Hello, World!")
}
