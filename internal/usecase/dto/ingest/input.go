package ingestdto

type UploadInput struct {
	CompanyID  string
	Actor      string
	OfferingID string
	// Rows are raw records without the header, in the fixed column order.
	Rows [][]string
}

type UploadOutput struct {
	BatchRef       string
	MasterID       string
	Lines          int
	Units          int
	GroupsCreated  int
	RemarksCreated int
}
