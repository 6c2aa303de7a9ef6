package vitals

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afyajamii/afya/internal/errs"
)

// Temperature units accepted on submission.
const (
	UnitCelsius    = "celsius"
	UnitFahrenheit = "fahrenheit"
)

// Reading is the raw measurement set a user submits.
type Reading struct {
	Age            int     `json:"age"`
	SystolicBP     int     `json:"systolic_bp"`
	DiastolicBP    int     `json:"diastolic_bp"`
	BS             float64 `json:"bs"`
	BodyTemp       float64 `json:"body_temp"`
	BodyTempUnit   string  `json:"body_temp_unit"`
	HeartRate      int     `json:"heart_rate"`
	PatientHistory string  `json:"patient_history"`
}

// Validate applies physiological bounds. The ranges are deliberately wide;
// the classifier, not the gateway, judges clinical severity.
func (r Reading) Validate() error {
	if r.Age < 10 || r.Age > 120 {
		return fmt.Errorf("%w: age must be between 10 and 120", errs.ErrValidation)
	}
	if r.SystolicBP < 50 || r.SystolicBP > 300 {
		return fmt.Errorf("%w: systolic_bp must be between 50 and 300", errs.ErrValidation)
	}
	if r.DiastolicBP < 30 || r.DiastolicBP > 200 {
		return fmt.Errorf("%w: diastolic_bp must be between 30 and 200", errs.ErrValidation)
	}
	if r.DiastolicBP >= r.SystolicBP {
		return fmt.Errorf("%w: diastolic_bp must be below systolic_bp", errs.ErrValidation)
	}
	if r.BS <= 0 || r.BS > 50 {
		return fmt.Errorf("%w: bs must be between 0 and 50", errs.ErrValidation)
	}
	switch r.BodyTempUnit {
	case UnitCelsius:
		if r.BodyTemp < 30 || r.BodyTemp > 45 {
			return fmt.Errorf("%w: body_temp out of range for celsius", errs.ErrValidation)
		}
	case UnitFahrenheit:
		if r.BodyTemp < 86 || r.BodyTemp > 113 {
			return fmt.Errorf("%w: body_temp out of range for fahrenheit", errs.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: body_temp_unit must be celsius or fahrenheit", errs.ErrValidation)
	}
	if r.HeartRate < 30 || r.HeartRate > 250 {
		return fmt.Errorf("%w: heart_rate must be between 30 and 250", errs.ErrValidation)
	}
	return nil
}

// TempFahrenheit converts the reading's temperature to Fahrenheit, the unit
// the classifier was trained on.
func (r Reading) TempFahrenheit() float64 {
	if r.BodyTempUnit == UnitCelsius {
		return r.BodyTemp*9/5 + 32
	}
	return r.BodyTemp
}

// Submission maps to the vitals_submissions table. Entries are append-only;
// the classifier output is attached once at submission time and never
// updated.
type Submission struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	Age                int       `db:"age" json:"age"`
	SystolicBP         int       `db:"systolic_bp" json:"systolic_bp"`
	DiastolicBP        int       `db:"diastolic_bp" json:"diastolic_bp"`
	BS                 float64   `db:"bs" json:"bs"`
	BodyTemp           float64   `db:"body_temp" json:"body_temp"`
	BodyTempUnit       string    `db:"body_temp_unit" json:"body_temp_unit"`
	HeartRate          int       `db:"heart_rate" json:"heart_rate"`
	PatientHistory     string    `db:"patient_history" json:"patient_history"`
	AccountType        string    `db:"account_type" json:"account_type"`
	RiskLabel          string    `db:"ml_risk_label" json:"ml_risk_label"`
	RiskProbability    float64   `db:"ml_probability" json:"ml_probability"`
	FeatureImportances string    `db:"ml_feature_importances" json:"ml_feature_importances"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
