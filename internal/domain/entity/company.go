package entity

// CompanyProfile holds the seller identity printed on every invoice. It is
// loaded once at startup and passed by value; nothing mutates it afterwards.
type CompanyProfile struct {
	Name           string `yaml:"name"`
	Address        string `yaml:"address"`
	City           string `yaml:"city"`
	State          string `yaml:"state"`
	Pincode        string `yaml:"pincode"`
	GSTIN          string `yaml:"gstin"`
	Phone          string `yaml:"phone"`
	Email          string `yaml:"email"`
	Website        string `yaml:"website"`
	BankName       string `yaml:"bank_name"`
	AccountName    string `yaml:"account_name"`
	AccountNumber  string `yaml:"account_number"`
	IFSCCode       string `yaml:"ifsc_code"`
	Branch         string `yaml:"branch"`
	UPIID          string `yaml:"upi_id"`
	ProprietorName string `yaml:"proprietor_name"`
	Designation    string `yaml:"designation"`
}

// DefaultCompanyProfile is used when no profile file is configured.
func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:           "WeDigi Studio",
		Address:        "Kavitha Street, UR Nagar, Padi",
		City:           "Chennai",
		State:          "Tamil Nadu",
		Pincode:        "600050",
		GSTIN:          "33EHSPA2932N1Z2",
		Phone:          "+91 88380 23321",
		Email:          "contact@wedigistudio.com",
		Website:        "www.wedigistudio.com",
		BankName:       "TMB",
		AccountName:    "Wedigi Studio",
		AccountNumber:  "171150050800792",
		IFSCCode:       "TMBL0000171",
		Branch:         "Kurnool branch",
		ProprietorName: "Swayam S",
		Designation:    "Director",
	}
}

// IndianStates is the canonical list of state and union territory names
// accepted as a client state. GST type detection compares these strings exactly.
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Andaman and Nicobar Islands", "Chandigarh", "Dadra and Nagar Haveli and Daman and Diu",
	"Delhi", "Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

// IsIndianState reports whether name is in IndianStates.
func IsIndianState(name string) bool {
	for _, s := range IndianStates {
		if s == name {
			return true
		}
	}
	return false
}
