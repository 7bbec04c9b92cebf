package apierror

// ApiError is the JSON body returned for failed requests.
type ApiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type Builder struct {
	err ApiError
}

func NewApiErrorBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithStatus(status int) *Builder {
	b.err.Status = status
	return b
}

func (b *Builder) WithMessage(message string) *Builder {
	b.err.Message = message
	return b
}

func (b *Builder) Build() ApiError {
	return b.err
}
