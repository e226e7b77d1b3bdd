package terminal

import (
	"fmt"

	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
)

func errUnknownCommand(kind CommandKind) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown command %q", kind))
}
