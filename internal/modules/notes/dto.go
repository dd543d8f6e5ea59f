package notes

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=200"`
	Body     string `json:"body"`
	IsPublic bool   `json:"is_public"`
}

type UpdateNoteRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Body     *string `json:"body,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}
