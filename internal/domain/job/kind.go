package job

type Kind string

const (
	KindSequentialValidation      Kind = "sequential_validation"
	KindSequentialProfilePictures Kind = "sequential_profile_pictures"
)
