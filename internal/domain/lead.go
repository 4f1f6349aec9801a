package domain

import "time"

type LeadCategory string

const (
	CategoryFinalConsumer LeadCategory = "final_consumer"
	CategoryReseller      LeadCategory = "reseller"
)

type PersonType string

const (
	PersonTypeIndividual PersonType = "person"
	PersonTypeCompany    PersonType = "company"
)

// Lead is a contact/customer record. A lead exists independently of its
// deals; deleting a deal never touches the lead.
type Lead struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name" gorm:"not null"`
	CompanyName string       `json:"company_name,omitempty"`
	Category    LeadCategory `json:"category"`
	PersonType  PersonType   `json:"person_type"`

	// Tax identifiers
	CPFCNPJ           string `json:"cpf_cnpj,omitempty"`
	StateRegistration string `json:"state_registration,omitempty"`

	// Contact
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	// Address
	Street   string `json:"street,omitempty"`
	Number   string `json:"number,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	// Reference id in the external contact-center platform. The sync glue
	// lives outside this service; we only store the id it hands us.
	ContactCenterID string `json:"contact_center_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
