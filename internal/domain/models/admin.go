package models

// Admin представляет единственную административную учетную запись
type Admin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
