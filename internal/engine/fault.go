package engine

import (
	"errors"

	"github.com/hostwise/hostwise/internal/model"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// extractResultInformation converts a captured runtime fault into result
// information. A UnitError carries its own code and source; anything else is
// an unexpected internal fault.
func extractResultInformation(info *model.ResultInformation, err error) {
	var unitErr *hosterrors.UnitError
	if errors.As(err, &unitErr) {
		info.Code = unitErr.Code
		info.Source = unitErr.Source
		if info.Source == model.SourceNone {
			info.Source = model.SourceUnitProcessing
		}
		info.Details = unitErr.Error()
		return
	}

	info.Code = model.Unexpected
	info.Source = model.SourceInternal
	info.Details = err.Error()
}
