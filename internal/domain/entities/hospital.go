package entities

// Hospital represents an internal capability/capacity record for a medical
// facility. Rows are maintained by an external ingestion process and are
// read-only from this service's perspective.
type Hospital struct {
	ID       string   `json:"hospital_id" db:"hospital_id"`
	Name     string   `json:"name" db:"name"`
	Location Location `json:"location" db:"-"`
	Address  Address  `json:"address" db:"-"`

	TotalBeds     int `json:"total_beds" db:"total_beds"`
	TotalBedsLoad int `json:"total_beds_load" db:"total_beds_load"`

	HasED          bool `json:"has_ed" db:"has_ed"`
	IsTraumaCenter bool `json:"is_trauma_center" db:"is_trauma_center"`
	// TraumaLevel is 1-5 with 1 the highest capability; 0 means no designation.
	TraumaLevel int `json:"trauma_level" db:"trauma_level"`

	HasCT         bool `json:"has_ct" db:"has_ct"`
	HasMRI        bool `json:"has_mri" db:"has_mri"`
	HasPetCT      bool `json:"has_pet_ct" db:"has_pet_ct"`
	HasUltrasound bool `json:"has_ultrasound" db:"has_ultrasound"`

	BurnCareBeds        int `json:"burn_care_beds" db:"burn_care_beds"`
	BurnCareBedsLoad    int `json:"burn_care_beds_load" db:"burn_care_beds_load"`
	ICUMedSurgBeds      int `json:"icu_med_surg_beds" db:"icu_med_surg_beds"`
	ICUMedSurgBedsLoad  int `json:"icu_med_surg_beds_load" db:"icu_med_surg_beds_load"`
	ICUNeonatalBeds     int `json:"icu_neonatal_beds" db:"icu_neonatal_beds"`
	ICUNeonatalBedsLoad int `json:"icu_neonatal_beds_load" db:"icu_neonatal_beds_load"`
	ICUPediatricBeds    int `json:"icu_pediatric_beds" db:"icu_pediatric_beds"`
	ICUPediatricBedsLoad int `json:"icu_pediatric_beds_load" db:"icu_pediatric_beds_load"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// BedAvailabilityRatio returns the fraction of total beds currently free.
// Capacity of zero or a load exceeding capacity counts as no availability.
func (h *Hospital) BedAvailabilityRatio() float64 {
	return AvailabilityRatio(h.TotalBeds, h.TotalBedsLoad)
}

// AvailabilityRatio computes the free fraction of a bed category, clamped to
// [0, 1] so malformed load counts degrade to zero availability instead of
// producing negative scores.
func AvailabilityRatio(capacity, load int) float64 {
	if capacity <= 0 {
		return 0
	}
	ratio := float64(capacity-load) / float64(capacity)
	if ratio < 0 {
		return 0
	}
	return ratio
}
