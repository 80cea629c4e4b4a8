package state

import (
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/utils"
	"github.com/julianstephens/weekslot/internal/validation"
)

// ErrFillAllFields is returned when any create field is left empty.
var ErrFillAllFields = errors.New(constants.MsgFillAllFields)

// NewSlot converts the form into a validated create input. Times are read
// in loc.
func (f SlotFormModel) NewSlot(loc *time.Location) (models.NewSlot, error) {
	in := models.NewSlot{Title: strings.TrimSpace(f.Title), Category: f.Category}

	var errs wserrors.ValidationErrors
	if s := strings.TrimSpace(f.Start); s != "" {
		t, err := utils.ParseDateTimeInLocation(s, loc)
		if err != nil {
			errs = append(errs, wserrors.ValidationError{Field: "start", Message: err.Error()})
		}
		in.Start = t
	}
	if s := strings.TrimSpace(f.End); s != "" {
		t, err := utils.ParseDateTimeInLocation(s, loc)
		if err != nil {
			errs = append(errs, wserrors.ValidationError{Field: "end", Message: err.Error()})
		}
		in.End = t
	}

	if len(errs) > 0 {
		return in, errs
	}

	if err := validation.ValidateNewSlot(in); err != nil {
		if validation.MissingFields(err) {
			return in, ErrFillAllFields
		}
		return in, err
	}
	return in, nil
}
