package visit

import (
	"github.com/smallvet/clinica/internal/visit/repository"
	"github.com/smallvet/clinica/internal/visit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("visit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
