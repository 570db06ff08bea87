package dto

import (
	"errors"
	"strings"

	"github.com/princinho/catalogsite/models"
	"github.com/spf13/cast"
)

// ErrMissingRequired is returned when name, email or phone is blank.
var ErrMissingRequired = errors.New("nombre, email and telefono are required")

// Form and JSON field names of a quote submission.
const (
	FieldName             = "nombre"
	FieldEmail            = "email"
	FieldPhone            = "telefono"
	FieldCompany          = "empresa"
	FieldProductsInterest = "productos_interes"
	FieldApproxQuantity   = "cantidad_aprox"
	FieldDesiredTimeframe = "plazo_deseado"
	FieldComments         = "comentarios"
	FieldReferralSource   = "como_nos_conocio"
)

// CreateQuoteRequestDTO is a quote submission with every value trimmed.
type CreateQuoteRequestDTO struct {
	Name             string `json:"nombre" form:"nombre"`
	Email            string `json:"email" form:"email"`
	Phone            string `json:"telefono" form:"telefono"`
	Company          string `json:"empresa" form:"empresa"`
	ProductsInterest string `json:"productos_interes" form:"productos_interes"`
	ApproxQuantity   string `json:"cantidad_aprox" form:"cantidad_aprox"`
	DesiredTimeframe string `json:"plazo_deseado" form:"plazo_deseado"`
	Comments         string `json:"comentarios" form:"comentarios"`
	ReferralSource   string `json:"como_nos_conocio" form:"como_nos_conocio"`
}

// QuoteRequestFromPayload reads a decoded JSON body. Scalar values of any
// type are coerced to strings; missing keys and nulls become "".
func QuoteRequestFromPayload(payload map[string]interface{}) CreateQuoteRequestDTO {
	return QuoteRequestFromLookup(func(key string) string {
		return cast.ToString(payload[key])
	})
}

// QuoteRequestFromLookup builds the DTO from any key/value source, such as
// a url-encoded form.
func QuoteRequestFromLookup(get func(key string) string) CreateQuoteRequestDTO {
	field := func(key string) string { return strings.TrimSpace(get(key)) }
	return CreateQuoteRequestDTO{
		Name:             field(FieldName),
		Email:            field(FieldEmail),
		Phone:            field(FieldPhone),
		Company:          field(FieldCompany),
		ProductsInterest: field(FieldProductsInterest),
		ApproxQuantity:   field(FieldApproxQuantity),
		DesiredTimeframe: field(FieldDesiredTimeframe),
		Comments:         field(FieldComments),
		ReferralSource:   field(FieldReferralSource),
	}
}

func (d CreateQuoteRequestDTO) Validate() error {
	if d.Name == "" || d.Email == "" || d.Phone == "" {
		return ErrMissingRequired
	}
	return nil
}

// ToModel converts the submission into the CMS body. Blank optional fields
// are sent as null, never as empty strings.
func (d CreateQuoteRequestDTO) ToModel() models.QuoteRequest {
	return models.QuoteRequest{
		Name:             d.Name,
		Email:            d.Email,
		Phone:            d.Phone,
		Company:          optional(d.Company),
		ProductsInterest: optional(d.ProductsInterest),
		ApproxQuantity:   optional(d.ApproxQuantity),
		DesiredTimeframe: optional(d.DesiredTimeframe),
		Comments:         optional(d.Comments),
		ReferralSource:   optional(d.ReferralSource),
		Status:           models.QuoteStatusNew,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
