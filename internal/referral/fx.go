package referral

import (
	"github.com/smallvet/clinica/internal/referral/repository"
	"github.com/smallvet/clinica/internal/referral/service"
	"go.uber.org/fx"
)

var Module = fx.Module("referral.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
