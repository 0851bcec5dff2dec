package prefs

import "strings"

const (
	keyFullName  = "full_name"
	keyAvatarURI = "avatar_uri"
	keyResumeURL = "resume_url"
	keyPosition  = "position"
)

// Profile is the locally stored user profile
type Profile struct {
	FullName  string `json:"fullName"`
	AvatarURI string `json:"avatarUri"`
	ResumeURL string `json:"resumeUrl"`
	Position  string `json:"position"`
}

// IsEmpty reports whether no profile field is set
func (p Profile) IsEmpty() bool {
	return strings.TrimSpace(p.FullName+p.AvatarURI+p.ResumeURL+p.Position) == ""
}

// ProfileStore persists the user profile
type ProfileStore struct {
	file *File
}

// NewProfileStore opens the profile preferences in dir
func NewProfileStore(dir string) (*ProfileStore, error) {
	file, err := OpenFile(dir, ProfileName)
	if err != nil {
		return nil, err
	}
	return &ProfileStore{file: file}, nil
}

// Load returns the stored profile. Absent fields are empty.
func (s *ProfileStore) Load() (Profile, error) {
	values, err := s.file.Read()
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		FullName:  values.String(keyFullName),
		AvatarURI: values.String(keyAvatarURI),
		ResumeURL: values.String(keyResumeURL),
		Position:  values.String(keyPosition),
	}, nil
}

// Save persists all profile fields
func (s *ProfileStore) Save(p Profile) error {
	return s.file.Edit(func(values Values) error {
		for key, val := range map[string]string{
			keyFullName:  p.FullName,
			keyAvatarURI: p.AvatarURI,
			keyResumeURL: p.ResumeURL,
			keyPosition:  p.Position,
		} {
			if err := values.Set(key, val); err != nil {
				return err
			}
		}
		return nil
	})
}
