package dto

type ReceiptResponse struct {
	ID         string  `json:"id"`
	SaleID     string  `json:"sale_id"`
	Number     int     `json:"number"`
	Status     string  `json:"status"`
	PDFPath    *string `json:"pdf_path,omitempty"`
	EmailTo    *string `json:"email_to,omitempty"`
	RetryCount int     `json:"retry_count"`
	LastError  *string `json:"last_error,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
