package request

type PersonaRequest struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
}

type ListPersonasRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
