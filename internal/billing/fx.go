package billing

import (
	"github.com/smallvet/clinica/internal/billing/repository"
	"github.com/smallvet/clinica/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
