package contracts

// Descriptor is the metadata record served for a package. JSON names match
// the package server's encoding.
type Descriptor struct {
	Name           string  `json:"pkgname"`
	DisplayName    string  `json:"fullname"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url"`
	ExecutablePath *string `json:"executable_path"`
	Checksum       uint32  `json:"crc"`
	HasInstaller   bool    `json:"has_installer"`
	AddToPath      bool    `json:"add_to_path"`
}

// Executable returns the declared executable path, or "" when none is declared.
func (this Descriptor) Executable() string {
	if this.ExecutablePath == nil {
		return ""
	}
	return *this.ExecutablePath
}
