package models

type QuoteRequestStatus string

// QuoteStatusNew is the status every submitted quote request starts with.
const QuoteStatusNew QuoteRequestStatus = "nueva"

// QuoteRequest is the body forwarded to the CMS quote collection. Optional
// fields are pointers so that blanks are sent as an explicit null.
type QuoteRequest struct {
	Name             string             `json:"nombre"`
	Email            string             `json:"email"`
	Phone            string             `json:"telefono"`
	Company          *string            `json:"empresa"`
	ProductsInterest *string            `json:"productos_interes"`
	ApproxQuantity   *string            `json:"cantidad_aprox"`
	DesiredTimeframe *string            `json:"plazo_deseado"`
	Comments         *string            `json:"comentarios"`
	ReferralSource   *string            `json:"como_nos_conocio"`
	Status           QuoteRequestStatus `json:"estado"`
}

// StoredQuoteRequest is a quote request as read back from the CMS.
type StoredQuoteRequest struct {
	ID               int     `json:"id" csv:"id"`
	Name             string  `json:"nombre" csv:"nombre"`
	Email            string  `json:"email" csv:"email"`
	Phone            string  `json:"telefono" csv:"telefono"`
	Company          *string `json:"empresa" csv:"empresa"`
	ProductsInterest *string `json:"productos_interes" csv:"productos_interes"`
	ApproxQuantity   *string `json:"cantidad_aprox" csv:"cantidad_aprox"`
	DesiredTimeframe *string `json:"plazo_deseado" csv:"plazo_deseado"`
	Comments         *string `json:"comentarios" csv:"comentarios"`
	ReferralSource   *string `json:"como_nos_conocio" csv:"como_nos_conocio"`
	Status           *string `json:"estado" csv:"estado"`
	DateCreated      *string `json:"date_created" csv:"date_created"`
}
