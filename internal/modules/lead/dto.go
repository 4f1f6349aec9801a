package lead

type CreateLeadRequest struct {
	Name        string `json:"name" binding:"required"`
	CompanyName string `json:"company_name"`
	Category    string `json:"category" binding:"omitempty,oneof=final_consumer reseller"`
	PersonType  string `json:"person_type" binding:"omitempty,oneof=person company"`

	CPFCNPJ           string `json:"cpf_cnpj" validate:"omitempty,cpfcnpj"`
	StateRegistration string `json:"state_registration"`

	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`

	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`

	Notes           string `json:"notes"`
	ContactCenterID string `json:"contact_center_id"`
}

type UpdateLeadRequest struct {
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	Category    *string `json:"category" binding:"omitempty,oneof=final_consumer reseller"`
	PersonType  *string `json:"person_type" binding:"omitempty,oneof=person company"`

	CPFCNPJ           *string `json:"cpf_cnpj"`
	StateRegistration *string `json:"state_registration"`

	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`

	Street   *string `json:"street"`
	Number   *string `json:"number"`
	District *string `json:"district"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	ZipCode  *string `json:"zip_code"`

	Notes           *string `json:"notes"`
	ContactCenterID *string `json:"contact_center_id"`
}

type ListLeadsQuery struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=final_consumer reseller"`
	City     string `form:"city"`
	Limit    int    `form:"limit,default=50" binding:"omitempty,gt=0,lte=200"`
	Offset   int    `form:"offset" binding:"omitempty,gte=0"`
}
