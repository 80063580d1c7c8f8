package metername

import (
	"github.com/smallbiznis/rentledger/internal/metername/repository"
	"github.com/smallbiznis/rentledger/internal/metername/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metername.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
