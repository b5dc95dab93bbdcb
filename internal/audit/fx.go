package audit

import (
	"github.com/smallvet/clinica/internal/audit/repository"
	"github.com/smallvet/clinica/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
