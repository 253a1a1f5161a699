package lookup

// Company is a customer the order form can pick; No fills companyNo.
type Company struct {
	Name string `json:"name"`
	No   string `json:"no"`
}

// Catalog holds the fixed option lists the admin forms offer.
type Catalog struct {
	Branches        []string  `json:"branches"`
	PaymentMethods  []string  `json:"paymentMethods"`
	DeliveryMethods []string  `json:"deliveryMethods"`
	Companies       []Company `json:"companies"`
	Surfaces        []string  `json:"surfaces"`
	Colors          []string  `json:"colors"`
	Alloys          []string  `json:"alloys"`
	Hardness        []string  `json:"hardness"`
	PriceUnits      []string  `json:"priceUnits"`
	Roles           []string  `json:"roles"`
	Departments     []string  `json:"departments"`
	AdminOptions    []string  `json:"adminOptions"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Branches:        []string{"Merkez", "Şube 1", "Şube 2", "Şube 3"},
		PaymentMethods:  []string{"AÇIK HESAP", "PEŞIN", "ÇEK", "NAKİT", "KREDİ KARTI"},
		DeliveryMethods: []string{"Depo Teslim", "Adrese Teslim", "Kargo", "Müşteri Alacak"},
		Companies: []Company{
			{Name: "ODAK İNOVASYON", No: "210027881"},
			{Name: "ALUCOREX", No: "210027886"},
			{Name: "ABC ŞİRKET", No: "210027890"},
			{Name: "XYZ LTD", No: "210027895"},
		},
		Surfaces:     []string{"MAT", "PARLAK", "DOĞAL", "BOYALI"},
		Colors:       []string{"RAL 9003", "RAL 9010", "RAL 7016", "BRONZ", "GÜMÜŞ"},
		Alloys:       []string{"6061", "6063", "7050", "7075"},
		Hardness:     []string{"F18", "F19", "F20", "T4", "T6"},
		PriceUnits:   []string{"KILOGRAM", "ADET", "METRE", "M2", "M3"},
		Roles:        []string{"GENEL MÜDÜR", "MUHASEBE ELEMANI", "SATIŞ TEMSİLCİSİ", "DEPO SORUMLUSU"},
		Departments:  []string{"Yönetim", "Satın Alma", "Üretim", "Satış", "Muhasebe"},
		AdminOptions: []string{"Admin", "User"},
	}
}

// Values returns the list registered under its JSON name, e.g. "colors".
// Companies are reported by name.
func (c Catalog) Values(kind string) ([]string, bool) {
	switch kind {
	case "branches":
		return c.Branches, true
	case "paymentMethods":
		return c.PaymentMethods, true
	case "deliveryMethods":
		return c.DeliveryMethods, true
	case "companies":
		names := make([]string, len(c.Companies))
		for i, company := range c.Companies {
			names[i] = company.Name
		}
		return names, true
	case "surfaces":
		return c.Surfaces, true
	case "colors":
		return c.Colors, true
	case "alloys":
		return c.Alloys, true
	case "hardness":
		return c.Hardness, true
	case "priceUnits":
		return c.PriceUnits, true
	case "roles":
		return c.Roles, true
	case "departments":
		return c.Departments, true
	case "adminOptions":
		return c.AdminOptions, true
	}
	return nil, false
}
