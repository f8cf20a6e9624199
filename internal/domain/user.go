package domain

// User is the actor contract consumed from the excluded auth system. SellerCode
// is empty for users who never became sellers.
type User struct {
	ID         int32  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	SellerCode string `json:"seller_code,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
	CreatedOn  string `json:"created_on"`
}
