package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallvet/clinica/internal/clock"
	"github.com/smallvet/clinica/internal/migration"
	"github.com/smallvet/clinica/internal/observability"
	"github.com/smallvet/clinica/internal/scheduler"
	"github.com/smallvet/clinica/internal/server"
	"github.com/smallvet/clinica/pkg/db"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	).Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
