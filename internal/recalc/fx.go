package recalc

import (
	"github.com/smallbiznis/rentledger/internal/recalc/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recalc.service",
	fx.Provide(service.New),
)
