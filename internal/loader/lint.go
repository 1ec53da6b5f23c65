package loader

import (
	"fmt"
	"strings"

	"github.com/kolah/truffle/internal/model"
	"github.com/pb33f/libopenapi/datamodel"
	validator "github.com/pb33f/libopenapi-validator"
	validatorErrors "github.com/pb33f/libopenapi-validator/errors"
)

// Lint builds the full libopenapi model for a document and, for 3.x documents,
// validates it against the OpenAPI schema. Problems are returned as warnings;
// an error means the document could not be modelled at all.
func Lint(doc *model.SpecDocument) ([]string, error) {
	document, err := newDocument([]byte(doc.RawText), documentConfig())
	if err != nil {
		return nil, err
	}

	version := document.GetVersion()
	var warnings []string

	switch document.GetSpecInfo().SpecFormat {
	case datamodel.OAS2:
		if _, err := document.BuildV2Model(); err != nil {
			warnings = append(warnings, fmt.Sprintf("building Swagger %s model: %v", version, err))
		}
	case datamodel.OAS3, datamodel.OAS31, datamodel.OAS32:
		if _, err := document.BuildV3Model(); err != nil {
			warnings = append(warnings, fmt.Sprintf("building OpenAPI %s model: %v", version, err))
		}
		if strings.HasPrefix(version, "3.0") {
			warnings = append(warnings, "OpenAPI 3.0.x detected; 3.1 schema keywords are ignored")
		}

		v, errs := validator.NewValidator(document)
		if len(errs) > 0 {
			return warnings, fmt.Errorf("creating validator: %w", errs[0])
		}
		if valid, verrs := v.ValidateDocument(); !valid {
			for _, ve := range verrs {
				warnings = append(warnings, formatValidationError(ve))
			}
		}
	default:
		return nil, fmt.Errorf("unsupported spec version: %q", version)
	}

	return warnings, nil
}

func formatValidationError(ve *validatorErrors.ValidationError) string {
	if ve.Reason != "" {
		return fmt.Sprintf("%s: %s", ve.Message, ve.Reason)
	}
	return ve.Message
}
