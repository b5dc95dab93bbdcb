package client

import (
	"github.com/smallvet/clinica/internal/client/repository"
	"github.com/smallvet/clinica/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
