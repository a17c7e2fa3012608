package dto

// DockingParamsForm binds the search-box and effort form fields of a
// submission. Bounds mirror what vina itself accepts.
type DockingParamsForm struct {
	CenterX        float64 `form:"center_x,default=0"`
	CenterY        float64 `form:"center_y,default=0"`
	CenterZ        float64 `form:"center_z,default=0"`
	SizeX          float64 `form:"size_x,default=20"`
	SizeY          float64 `form:"size_y,default=20"`
	SizeZ          float64 `form:"size_z,default=20"`
	Exhaustiveness int     `form:"exhaustiveness,default=8" binding:"min=1,max=32"`
	NumModes       int     `form:"num_modes,default=9" binding:"min=1,max=20"`
}

// SubmitJobResponse is returned synchronously on job submission.
type SubmitJobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
