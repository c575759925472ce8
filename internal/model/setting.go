package model

// SystemSetting is a free-form key/value row with upsert semantics. Used for
// the signature blocks rendered on request exports.
type SystemSetting struct {
	Key   string `gorm:"column:setting_key;type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"column:setting_value;type:text" json:"value"`
}

// Signature block setting keys and their defaults.
const (
	SettingSignature1Label = "signature_1_label"
	SettingSignature1Name  = "signature_1_name"
	SettingSignature2Label = "signature_2_label"
	SettingSignature2Name  = "signature_2_name"
	SettingSignature3Label = "signature_3_label"
	SettingSignature3Name  = "signature_3_name"
	SettingSignature4Label = "signature_4_label"
	SettingSignature4Name  = "signature_4_name"
)

// SignatureLabelDefaults maps label keys to the labels used when no value
// has been configured.
var SignatureLabelDefaults = map[string]string{
	SettingSignature1Label: "Requested by",
	SettingSignature2Label: "Approved by",
	SettingSignature3Label: "Verified by",
	SettingSignature4Label: "Received by",
}

// SignatureBlock is one label/name pair on the export signature strip.
type SignatureBlock struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}
