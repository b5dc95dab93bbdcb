package pricelist

import (
	"github.com/smallvet/clinica/internal/pricelist/repository"
	"github.com/smallvet/clinica/internal/pricelist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricelist.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
