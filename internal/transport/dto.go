package transport

type RegisterRequest struct {
	Name                 string  `json:"name"                  validate:"required,max=255"`
	Email                string  `json:"email"                 validate:"required,email,max=255"`
	Password             string  `json:"password"              validate:"required,min=6,maxbytes=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Role                 *string `json:"role"                  validate:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description"`
}

type PatchCategoryRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Description Optional[string] `json:"description"`
}

type CreateProductRequest struct {
	CategoryID  *uint    `json:"category_id" validate:"required"`
	Name        string   `json:"name"        validate:"required,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Stock       *int     `json:"stock"       validate:"required,gte=0"`
}

type PatchProductRequest struct {
	CategoryID  *uint            `json:"category_id"`
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Description Optional[string] `json:"description"`
	Price       *float64         `json:"price"       validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock"       validate:"omitempty,gte=0"`
}

// Page is the paginated list envelope.
type Page[T any] struct {
	CurrentPage int   `json:"current_page"`
	Data        []T   `json:"data"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

func NewPage[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	p := Page[T]{
		CurrentPage: page,
		Data:        items,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From, p.To = &from, &to
	}
	return p
}
