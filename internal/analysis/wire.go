package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/guttosm/costofequity/internal/domain/models"
)

// The wire types decode every number as null.Float so that an absent or
// null field can be told apart from a genuine zero.

type wireCAPM struct {
	Intercept            null.Float `json:"intercept"`
	Beta                 null.Float `json:"beta"`
	R2                   null.Float `json:"R2"`
	ExpectedReturnAnnual null.Float `json:"expected_return_annual"`
}

type wireFF3 struct {
	Intercept            null.Float `json:"intercept"`
	BetaMkt              null.Float `json:"beta_mkt"`
	BetaSMB              null.Float `json:"beta_smb"`
	BetaHML              null.Float `json:"beta_hml"`
	R2                   null.Float `json:"R2"`
	ExpectedReturnAnnual null.Float `json:"expected_return_annual"`
}

type wireResult struct {
	CAPM wireCAPM `json:"capm"`
	FF3  wireFF3  `json:"ff3"`
}

type field struct {
	name string
	v    null.Float
	dst  *float64
}

// decodeResult parses an analysis response body. Every field of both models
// must be present and numeric; otherwise the error wraps ErrMalformed and
// names the missing fields.
func decodeResult(body []byte) (models.Result, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return models.Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var r models.Result
	fields := []field{
		{"capm.intercept", w.CAPM.Intercept, &r.CAPM.Intercept},
		{"capm.beta", w.CAPM.Beta, &r.CAPM.Beta},
		{"capm.R2", w.CAPM.R2, &r.CAPM.R2},
		{"capm.expected_return_annual", w.CAPM.ExpectedReturnAnnual, &r.CAPM.ExpectedReturnAnnual},
		{"ff3.intercept", w.FF3.Intercept, &r.FF3.Intercept},
		{"ff3.beta_mkt", w.FF3.BetaMkt, &r.FF3.BetaMkt},
		{"ff3.beta_smb", w.FF3.BetaSMB, &r.FF3.BetaSMB},
		{"ff3.beta_hml", w.FF3.BetaHML, &r.FF3.BetaHML},
		{"ff3.R2", w.FF3.R2, &r.FF3.R2},
		{"ff3.expected_return_annual", w.FF3.ExpectedReturnAnnual, &r.FF3.ExpectedReturnAnnual},
	}

	var missing []string
	for _, f := range fields {
		if !f.v.Valid {
			missing = append(missing, f.name)
			continue
		}
		*f.dst = f.v.Float64
	}
	if len(missing) > 0 {
		return models.Result{}, fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return r, nil
}
