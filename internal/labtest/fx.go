package labtest

import (
	"github.com/smallvet/clinica/internal/labtest/repository"
	"github.com/smallvet/clinica/internal/labtest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("labtest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
