package backend

// Wire types for the boutique REST API. Field names follow the
// upstream payloads, which mix French keys (prix, quantite, wilaya)
// with a handful of English ones.

// Color is a selectable product color.
type Color struct {
	ID   int64  `json:"id"`
	Name string `json:"nom"`
	Hex  string `json:"hex"`
}

// StockRecord is one per-variant stock row. Size is empty for
// size-less variants.
type StockRecord struct {
	ColorID  int64  `json:"couleur_id"`
	Size     string `json:"taille"`
	Quantity int    `json:"quantite"`
}

// Product is the detail payload returned by GET /products/{id}.
type Product struct {
	ID     int64         `json:"id"`
	Title  string        `json:"titre"`
	Price  float64       `json:"prix"`
	Promo  float64       `json:"promo"`
	Images []string      `json:"images"`
	Colors []Color       `json:"couleurs"`
	Sizes  []string      `json:"tailles"`
	Stock  []StockRecord `json:"stock"`

	// LegacyQuantity is the pre-variant scalar stock field still
	// present on products never migrated to per-variant rows.
	LegacyQuantity int `json:"quantite"`
}

// DeliveryRate is the per-wilaya rate row from GET /livraisons.
type DeliveryRate struct {
	Wilaya         string  `json:"wilaya"`
	HomePrice      float64 `json:"tarif_domicile"`
	OfficePrice    float64 `json:"tarif_bureau"`
	EstimatedDelay string  `json:"delai_livraison"`
	Active         bool    `json:"active"`
}

// Promo is the server-attested promo object returned by promo/verify.
// Exactly one of Percentage or FixedAmount is meaningful; the upstream
// API does not enforce that, so the percentage branch wins ties.
type Promo struct {
	ID          int64    `json:"id"`
	Code        string   `json:"code"`
	Percentage  *float64 `json:"pourcentage,omitempty"`
	FixedAmount *float64 `json:"montant_fixe,omitempty"`
}

type verifyPromoRequest struct {
	Code string `json:"code"`
}

type verifyPromoResponse struct {
	Valid   bool   `json:"valid"`
	Promo   *Promo `json:"promo,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderLine is one article in the order-creation payload.
type OrderLine struct {
	ProductID int64   `json:"id"`
	Quantity  int     `json:"quantite"`
	UnitPrice float64 `json:"prix"`
	ColorID   *int64  `json:"couleur_id,omitempty"`
	Size      string  `json:"taille,omitempty"`
}

// OrderRequest is the POST /orders payload.
type OrderRequest struct {
	Articles       []OrderLine `json:"articles"`
	Wilaya         string      `json:"wilaya"`
	Commune        string      `json:"commune"`
	DeliveryType   string      `json:"type_livraison"`
	Address        string      `json:"adresse"`
	CustomerName   string      `json:"nom_client"`
	CustomerPhone  string      `json:"telephone"`
	PromoCodeID    *int64      `json:"code_promo_id,omitempty"`
	DiscountAmount float64     `json:"montant_reduction"`
	DeliveryFee    float64     `json:"frais_livraison"`
	Total          float64     `json:"total"`
}

// OrderResponse carries the identifier of the created order.
type OrderResponse struct {
	OrderID int64 `json:"orderId"`
}
