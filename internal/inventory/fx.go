package inventory

import (
	"github.com/smallvet/clinica/internal/inventory/repository"
	"github.com/smallvet/clinica/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
