package courier

type CourierToCreateDTO struct {
	CourierID    uint64   `json:"courier_id" validate:"required"`
	CourierType  string   `json:"courier_type" validate:"required,courier_type"`
	Regions      []int32  `json:"regions" validate:"unique"`
	WorkingHours []string `json:"working_hours" validate:"unique,each_HH_MM_HH_MM_time_interval"`
}

// CourierPatchDTO carries a partial attribute update. Nil means the field is
// not part of the patch; at least one field must be present.
type CourierPatchDTO struct {
	CourierType  *string  `json:"courier_type" validate:"omitempty,courier_type"`
	Regions      []int32  `json:"regions" validate:"omitempty,unique"`
	WorkingHours []string `json:"working_hours" validate:"omitempty,unique,each_HH_MM_HH_MM_time_interval"`
}

func (p CourierPatchDTO) Empty() bool {
	return p.CourierType == nil && p.Regions == nil && p.WorkingHours == nil
}

// CourierMetaDTO extends courier info with performance metrics; Rating and
// Earnings are present only when the courier has completed orders.
type CourierMetaDTO struct {
	Rating   *float64
	Earnings *int
}
