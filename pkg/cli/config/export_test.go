package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location, apiKey string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
		apiKey:    apiKey,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, databaseID string) *Repository {
	return &Repository{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewImageStoreForTest creates an ImageStore config for testing purposes
func NewImageStoreForTest(bucket, prefix string) *ImageStore {
	return &ImageStore{
		bucket: bucket,
		prefix: prefix,
	}
}

// NewPolicyForTest creates a Policy config for testing purposes
func NewPolicyForTest(path string) *Policy {
	return &Policy{
		path: path,
	}
}
