package catalog

import (
	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
