// Package validator runs sanity checks on a parsed Comprobante.
//
// These are not schema checks: the parser already guarantees that every
// required field is present and well-typed. The validator looks at values
// that parse fine but are suspicious.
package validator

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"

	money "github.com/rezonia/cfdi-processor/internal/decimal"
	"github.com/rezonia/cfdi-processor/internal/model"
)

// Rule names reported in ValidationError.Rule
const (
	RuleRFCFormat       = "rfc_format"
	RuleUUIDFormat      = "uuid_format"
	RuleTipo            = "tipo_comprobante"
	RuleDescuento       = "descuento_exceeds_subtotal"
	RuleTotal           = "total_below_net"
	RuleTotalPositive   = "total_not_positive"
	RuleStamped         = "stamped"
	RuleStampChronology = "stamp_before_issue"
)

// 3 letters for companies, 4 for individuals, YYMMDD, 3-char homoclave
var rfcPattern = regexp.MustCompile(`^[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}$`)

// Options configures validation
type Options struct {
	// Strict promotes every warning to an error
	Strict bool
}

// Result holds the findings for one document
type Result struct {
	Valid    bool
	Errors   []*model.ValidationError
	Warnings []*model.ValidationError
}

// Messages flattens errors and warnings into strings
func (r *Result) Messages() (errs []string, warnings []string) {
	for _, e := range r.Errors {
		errs = append(errs, e.Error())
	}
	for _, w := range r.Warnings {
		warnings = append(warnings, w.Error())
	}
	return errs, warnings
}

type collector struct {
	strict bool
	result *Result
}

func (c *collector) fail(field string, value interface{}, rule, message string) {
	c.result.Errors = append(c.result.Errors, model.NewValidationError(field, value, rule, message))
}

func (c *collector) warn(field string, value interface{}, rule, message string) {
	if c.strict {
		c.fail(field, value, rule, message)
		return
	}
	c.result.Warnings = append(c.result.Warnings, model.NewValidationError(field, value, rule, message))
}

// Validate checks a parsed document
func Validate(doc *model.Comprobante, opts Options) *Result {
	c := &collector{strict: opts.Strict, result: &Result{}}

	checkRFC(c, "emisor.rfc", doc.Emisor.Rfc)
	checkRFC(c, "receptor.rfc", doc.Receptor.Rfc)

	if !doc.TipoDeComprobante.Known() {
		c.warn("tipo_comprobante", doc.TipoDeComprobante, RuleTipo, "not in the SAT c_TipoDeComprobante catalogue")
	}

	checkAmounts(c, doc)

	tfd, stamped := doc.Timbre().Get()
	if !stamped {
		c.warn("complemento.timbre_fiscal_digital", nil, RuleStamped, "document is not stamped")
	} else {
		if _, err := uuid.Parse(tfd.UUID); err != nil {
			c.warn("timbre.uuid", tfd.UUID, RuleUUIDFormat, "stamp UUID is not a valid UUID")
		}
		if tfd.FechaTimbrado.Before(doc.Fecha) {
			c.fail("timbre.fecha_timbrado", tfd.FechaTimbrado.Format(model.DateTimeLayout), RuleStampChronology,
				fmt.Sprintf("stamped before the issue date %s", doc.Fecha.Format(model.DateTimeLayout)))
		}
	}

	c.result.Valid = len(c.result.Errors) == 0
	return c.result
}

func checkRFC(c *collector, field, rfc string) {
	if !rfcPattern.MatchString(rfc) {
		c.warn(field, rfc, RuleRFCFormat, "RFC has an unexpected shape")
	}
}

func checkAmounts(c *collector, doc *model.Comprobante) {
	descuento, ok := doc.Descuento.Get()
	if !ok {
		descuento = money.Zero
	}

	if descuento.GreaterThan(doc.SubTotal) {
		c.fail("descuento", money.Format(descuento), RuleDescuento,
			fmt.Sprintf("discount is larger than subtotal %s", money.Format(doc.SubTotal)))
		return
	}

	income := doc.TipoDeComprobante == model.TipoIngreso || doc.TipoDeComprobante == "ingreso"
	if income && !money.IsPositive(doc.Total) {
		c.warn("total", money.Format(doc.Total), RuleTotalPositive, "income document total is not positive")
	}

	// Withholdings can legitimately push the total below the net amount
	net := money.Net(doc.SubTotal, descuento)
	if doc.Total.LessThan(net) {
		c.warn("total", money.Format(doc.Total), RuleTotal,
			fmt.Sprintf("total is below subtotal - descuento = %s", money.Format(net)))
	}
}
