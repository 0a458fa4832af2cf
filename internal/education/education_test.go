package education

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/markup/internal/api"
	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/session"
	"github.com/felixgeelhaar/markup/internal/tier"
)

type fakeClient struct {
	setups   []api.EducationSetup
	tokens   []string
	setupErr error
	lookups  []string
}

func (f *fakeClient) Countries(ctx context.Context) ([]string, error) {
	f.lookups = append(f.lookups, "countries")
	return []string{"UK", "US"}, nil
}

func (f *fakeClient) Levels(ctx context.Context, country string) ([]string, error) {
	f.lookups = append(f.lookups, "levels:"+country)
	return []string{"GCSE", "A-Level"}, nil
}

func (f *fakeClient) Boards(ctx context.Context, country, level string) ([]string, error) {
	f.lookups = append(f.lookups, "boards:"+country+"/"+level)
	return []string{"AQA", "OCR"}, nil
}

func (f *fakeClient) SetupEducation(ctx context.Context, token string, setup api.EducationSetup) error {
	f.tokens = append(f.tokens, token)
	f.setups = append(f.setups, setup)
	return f.setupErr
}

type fakeSessions struct {
	snap    session.Session
	updates []session.ProfileUpdate
}

func (f *fakeSessions) Snapshot() session.Session { return f.snap }

func (f *fakeSessions) UpdateProfile(u session.ProfileUpdate) (*api.Profile, error) {
	if f.snap.User == nil {
		return nil, errors.NewNotSignedInError()
	}
	f.updates = append(f.updates, u)
	p := *f.snap.User
	p.Country, p.EducationLevel, p.ExamBoard, p.Language = *u.Country, *u.EducationLevel, *u.ExamBoard, *u.Language
	f.snap.User = &p
	return &p, nil
}

func TestFormCascade(t *testing.T) {
	saved := &api.Profile{Country: "UK", EducationLevel: "GCSE", ExamBoard: "AQA", Language: "fr"}

	t.Run("seeded from profile", func(t *testing.T) {
		f := NewForm(saved)
		assert.True(t, f.Complete())
		assert.Equal(t, "fr", f.Language)
		assert.Equal(t, "UK • GCSE • AQA", f.Summary())
	})

	t.Run("new country clears level and board", func(t *testing.T) {
		f := NewForm(saved)
		f.SetCountry("US")
		assert.Empty(t, f.EducationLevel)
		assert.Empty(t, f.ExamBoard)
		assert.False(t, f.Complete())
		assert.Empty(t, f.Summary())
	})

	t.Run("saved country keeps dependents", func(t *testing.T) {
		f := NewForm(saved)
		f.SetCountry("UK")
		assert.Equal(t, "GCSE", f.EducationLevel)
		assert.Equal(t, "AQA", f.ExamBoard)
	})

	t.Run("new level clears board", func(t *testing.T) {
		f := NewForm(saved)
		f.SetLevel("A-Level")
		assert.Equal(t, "A-Level", f.EducationLevel)
		assert.Empty(t, f.ExamBoard)
	})

	t.Run("saved level keeps board", func(t *testing.T) {
		f := NewForm(saved)
		f.SetLevel("GCSE")
		assert.Equal(t, "AQA", f.ExamBoard)
	})

	t.Run("nil profile defaults language", func(t *testing.T) {
		f := NewForm(nil)
		assert.Equal(t, DefaultLanguage, f.Language)
		assert.Equal(t, "English (UK)", f.LanguageName())
		f.SetCountry("UK")
		f.SetLevel("GCSE")
		f.SetBoard("OCR")
		assert.True(t, f.Complete())
	})
}

func TestLookups(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, &fakeSessions{})
	ctx := context.Background()

	_, err := svc.Countries(ctx)
	require.NoError(t, err)

	levels, err := svc.Levels(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, levels)

	boards, err := svc.Boards(ctx, "UK", "")
	require.NoError(t, err)
	assert.Nil(t, boards)

	_, err = svc.Boards(ctx, "UK", "GCSE")
	require.NoError(t, err)
	assert.Equal(t, []string{"countries", "boards:UK/GCSE"}, client.lookups)
}

func TestSave(t *testing.T) {
	client := &fakeClient{}
	sessions := &fakeSessions{snap: session.Session{Token: "T1", User: &api.Profile{ID: "u1", Tier: tier.Free}}}
	svc := NewService(client, sessions)

	f := NewForm(sessions.snap.User)
	f.SetCountry("UK")
	f.SetLevel("GCSE")
	f.SetBoard("AQA")
	f.SetLanguage("en-gb")

	p, err := svc.Save(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "UK", p.Country)
	assert.Equal(t, "en-GB", p.Language, "language is canonicalized")
	assert.Equal(t, []string{"T1"}, client.tokens)
	require.Len(t, client.setups, 1)
	assert.Equal(t, api.EducationSetup{Country: "UK", EducationLevel: "GCSE", ExamBoard: "AQA", Language: "en-GB"}, client.setups[0])

	f.SetCountry("UK")
	assert.Equal(t, "GCSE", f.EducationLevel, "saved values become the new baseline")
}

func TestSaveRejections(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		svc := NewService(&fakeClient{}, &fakeSessions{})
		_, err := svc.Save(context.Background(), NewForm(nil))
		assert.Equal(t, errors.KindAuth, errors.KindOf(err))
	})

	t.Run("incomplete", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewService(client, &fakeSessions{snap: session.Session{Token: "T1", User: &api.Profile{}}})
		f := NewForm(nil)
		f.SetCountry("UK")
		_, err := svc.Save(context.Background(), f)
		assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		assert.Empty(t, client.setups, "nothing is sent")
	})

	t.Run("bad language", func(t *testing.T) {
		client := &fakeClient{}
		svc := NewService(client, &fakeSessions{snap: session.Session{Token: "T1", User: &api.Profile{}}})
		f := &Form{Country: "UK", EducationLevel: "GCSE", ExamBoard: "AQA", Language: "??"}
		_, err := svc.Save(context.Background(), f)
		assert.Equal(t, errors.KindValidation, errors.KindOf(err))
		assert.Empty(t, client.setups)
	})

	t.Run("server failure leaves profile alone", func(t *testing.T) {
		client := &fakeClient{setupErr: errors.NewServerError(500, "boom")}
		sessions := &fakeSessions{snap: session.Session{Token: "T1", User: &api.Profile{}}}
		svc := NewService(client, sessions)
		f := &Form{Country: "UK", EducationLevel: "GCSE", ExamBoard: "AQA", Language: "en-GB"}
		_, err := svc.Save(context.Background(), f)
		assert.Equal(t, errors.KindServer, errors.KindOf(err))
		assert.Empty(t, sessions.updates)
	})
}

func TestLanguageCodes(t *testing.T) {
	codes := LanguageCodes()
	require.Len(t, codes, len(Languages))
	assert.Equal(t, DefaultLanguage, codes[0])
	assert.IsIncreasing(t, codes[1:])
}
