package cli

import (
	"github.com/buildmill/buildmill/internal/build"
	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/internal/observability"
	"github.com/buildmill/buildmill/pkg/models"
)

// Service instances, set during app initialization in internal/app.go.
var (
	BasePath  string
	Settings  *models.Settings
	ConfigMgr core.ConfigurationManager
	Builder   *build.Builder
	Registry  *core.Registry
	Snapshot  core.Snapshot
	Runner    *core.ChainRunner
	Assembler *core.Assembler
	EventLog  observability.EventLog
)
