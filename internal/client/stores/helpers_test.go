package stores

import (
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

func nopLogger() logging.Logger { return logging.NewNop() }
