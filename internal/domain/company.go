package domain

type Company struct {
	ID                 int64  `json:"id"`
	NameNormalized     string `json:"name_normalized"`
	LinkedInURL        string `json:"linkedin_url,omitempty"`
	HeadcountPoland    *int   `json:"headcount_poland,omitempty"`
	Industry           string `json:"industry,omitempty"`
	IsICPMatch         bool   `json:"is_icp_match"`
	IsExistingCustomer bool   `json:"is_existing_customer"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// CompanyUpdate is a partial enrichment record. Nil fields are left untouched.
type CompanyUpdate struct {
	LinkedInURL        *string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	HeadcountPoland    *int    `json:"headcount_poland,omitempty" validate:"omitempty,gte=0"`
	Industry           *string `json:"industry,omitempty"`
	IsICPMatch         *bool   `json:"is_icp_match,omitempty"`
	IsExistingCustomer *bool   `json:"is_existing_customer,omitempty"`
}

func (u *CompanyUpdate) Validate() error {
	return validate.Struct(u)
}

func (u CompanyUpdate) Empty() bool {
	return u.LinkedInURL == nil && u.HeadcountPoland == nil && u.Industry == nil &&
		u.IsICPMatch == nil && u.IsExistingCustomer == nil
}
