package ds

import "encoding/json"

// Типизированные варианты details по видам услуг.
// Для неизвестного вида сохраняется открытая map строк,
// чтобы фронт мог отрисовать любые присланные ключи.

type DrillingDetails struct {
	WellDepth   string `json:"well_depth,omitempty"`
	RigType     string `json:"rig_type,omitempty"`
	FieldName   string `json:"field_name,omitempty"`
	StartWindow string `json:"start_window,omitempty"`
	ExtraNotes  string `json:"extra_notes,omitempty"`
}

type SupplyDetails struct {
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
	CargoType   string `json:"cargo_type,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	Vessel      string `json:"vessel,omitempty"`
}

type ManningDetails struct {
	CrewSize       int    `json:"crew_size,omitempty"`
	Positions      string `json:"positions,omitempty"`
	RotationWeeks  int    `json:"rotation_weeks,omitempty"`
	Certifications string `json:"certifications,omitempty"`
}

type MaintenanceDetails struct {
	AssetName    string `json:"asset_name,omitempty"`
	IssueSummary string `json:"issue_summary,omitempty"`
	Urgency      string `json:"urgency,omitempty"`
}

// RequestDetails - размеченное объединение по виду услуги.
// Заполнен ровно один из типизированных вариантов либо Generic.
type RequestDetails struct {
	ServiceType string
	Drilling    *DrillingDetails
	Supply      *SupplyDetails
	Manning     *ManningDetails
	Maintenance *MaintenanceDetails
	Generic     map[string]string
}

// DecodeDetails разбирает jsonb details в типизированный вариант по виду услуги
func DecodeDetails(serviceType string, raw JSONB) (*RequestDetails, error) {
	d := &RequestDetails{ServiceType: serviceType}
	if len(raw) == 0 {
		return d, nil
	}

	switch serviceType {
	case ServiceTypeDrilling:
		d.Drilling = &DrillingDetails{}
		return d, json.Unmarshal(raw, d.Drilling)
	case ServiceTypeSupply:
		d.Supply = &SupplyDetails{}
		return d, json.Unmarshal(raw, d.Supply)
	case ServiceTypeManning:
		d.Manning = &ManningDetails{}
		return d, json.Unmarshal(raw, d.Manning)
	case ServiceTypeMaintenance:
		d.Maintenance = &MaintenanceDetails{}
		return d, json.Unmarshal(raw, d.Maintenance)
	}

	// Неизвестный вид услуги - оставляем открытую map строк
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	d.Generic = make(map[string]string, len(generic))
	for k, v := range generic {
		if s, ok := v.(string); ok {
			d.Generic[k] = s
		} else {
			b, _ := json.Marshal(v)
			d.Generic[k] = string(b)
		}
	}
	return d, nil
}

// PlaceholderMetadata возвращает заготовку metadata проекта по виду услуги.
// Заполняется при одобрении заявки, реальные значения сотрудник вносит позже.
func PlaceholderMetadata(serviceType string) map[string]string {
	switch serviceType {
	case ServiceTypeSupply:
		return map[string]string{
			"origin":      "Waiting for details",
			"destination": "Waiting for details",
			"vessel":      "Pending Assignment",
		}
	case ServiceTypeDrilling:
		return map[string]string{
			"rig":        "Pending Assignment",
			"well_depth": "Waiting for details",
		}
	case ServiceTypeManning:
		return map[string]string{
			"crew_size": "Waiting for details",
			"rotation":  "Waiting for details",
		}
	case ServiceTypeMaintenance:
		return map[string]string{
			"asset":  "Waiting for details",
			"vessel": "Pending Assignment",
		}
	}
	return map[string]string{}
}
