package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/churn-scope/pkg/models/domain"
)

// Row is one raw uploaded row, column name to raw value.
type Row map[string]string

// RequiredColumns is the fixed upload schema. Every row must carry all of
// them; TechSupport is optional and defaults to "No".
var RequiredColumns = []string{
	"CustomerID",
	"Gender",
	"SeniorCitizen",
	"Partner",
	"Dependents",
	"Tenure",
	"PhoneService",
	"InternetService",
	"Contract",
	"PaperlessBilling",
	"PaymentMethod",
	"MonthlyCharges",
	"TotalCharges",
}

// ValidateRow parses one raw row into a CustomerRecord. index is the 1-based
// row position used in error reporting. This is a parse step, not a
// best-effort coercion: any violation yields a ValidationError and no record.
func ValidateRow(index int, row Row) (domain.CustomerRecord, *domain.ValidationError) {
	for _, col := range RequiredColumns {
		if _, ok := row[col]; !ok {
			return domain.CustomerRecord{}, &domain.ValidationError{
				Row: index, Column: col, Reason: "required column is missing",
			}
		}
	}

	fail := func(col, reason string) (domain.CustomerRecord, *domain.ValidationError) {
		return domain.CustomerRecord{}, &domain.ValidationError{Row: index, Column: col, Reason: reason}
	}

	id := strings.TrimSpace(row["CustomerID"])
	if id == "" {
		return fail("CustomerID", "identifier must not be empty")
	}

	senior, ok := parseSeniorCitizen(row["SeniorCitizen"])
	if !ok {
		return fail("SeniorCitizen", fmt.Sprintf("expected 0 or 1, got %q", row["SeniorCitizen"]))
	}

	rec := domain.CustomerRecord{
		ID:              id,
		Gender:          strings.TrimSpace(row["Gender"]),
		SeniorCitizen:   senior,
		InternetService: strings.TrimSpace(row["InternetService"]),
		PaymentMethod:   strings.TrimSpace(row["PaymentMethod"]),
	}

	for col, dst := range map[string]*bool{
		"Partner":          &rec.Partner,
		"Dependents":       &rec.Dependents,
		"PhoneService":     &rec.PhoneService,
		"PaperlessBilling": &rec.PaperlessBilling,
	} {
		v, ok := parseYesNo(row[col])
		if !ok {
			return fail(col, fmt.Sprintf("expected Yes or No, got %q", row[col]))
		}
		*dst = v
	}

	// TechSupport is not part of the required schema; absent means No.
	if raw, ok := row["TechSupport"]; ok && strings.TrimSpace(raw) != "" {
		v, ok := parseYesNo(raw)
		if !ok {
			return fail("TechSupport", fmt.Sprintf("expected Yes or No, got %q", raw))
		}
		rec.TechSupport = v
	}

	tenure, err := strconv.Atoi(strings.TrimSpace(row["Tenure"]))
	if err != nil || tenure < 0 {
		return fail("Tenure", fmt.Sprintf("expected a non-negative integer, got %q", row["Tenure"]))
	}
	rec.TenureMonths = tenure

	contract, ok := parseContract(row["Contract"])
	if !ok {
		return fail("Contract", fmt.Sprintf("expected Month-to-month, One year or Two year, got %q", row["Contract"]))
	}
	rec.Contract = contract

	monthly, ok := parseCharge(row["MonthlyCharges"])
	if !ok {
		return fail("MonthlyCharges", fmt.Sprintf("expected a non-negative number, got %q", row["MonthlyCharges"]))
	}
	rec.MonthlyCharges = monthly

	// A blank TotalCharges is a known artifact for brand-new customers: the
	// first bill has not been issued yet. Accept it only at tenure 0 and
	// derive the total from the monthly charge.
	rawTotal := strings.TrimSpace(row["TotalCharges"])
	if rawTotal == "" {
		if tenure != 0 {
			return fail("TotalCharges", "blank value is only allowed when Tenure is 0")
		}
		rec.TotalCharges = monthly
	} else {
		total, ok := parseCharge(rawTotal)
		if !ok {
			return fail("TotalCharges", fmt.Sprintf("expected a non-negative number, got %q", row["TotalCharges"]))
		}
		rec.TotalCharges = total
	}

	return rec, nil
}

func parseSeniorCitizen(raw string) (bool, bool) {
	switch strings.TrimSpace(raw) {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

func parseYesNo(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return true, true
	case "no":
		return false, true
	default:
		return false, false
	}
}

func parseContract(raw string) (domain.Contract, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "month-to-month":
		return domain.ContractMonthToMonth, true
	case "one year":
		return domain.ContractOneYear, true
	case "two year":
		return domain.ContractTwoYear, true
	default:
		return "", false
	}
}

func parseCharge(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
