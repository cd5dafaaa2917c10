package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x52908400098527886E0F7030069857D2E4169EE7"

func fixedValidator(now time.Time) Validator {
	return Validator{
		Now:          func() time.Time { return now },
		MaxClockSkew: DefaultMaxClockSkew,
	}
}

func validKeystore(prov Provisioning, createdAt int64) LocalKeystore {
	return LocalKeystore{
		Address:             testAddress,
		EncryptedPrivateKey: "ab12:cd34:ef5678",
		Provisioning:        prov,
		CreatedAt:           createdAt,
	}
}

func TestValidate_AllSources(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(now)

	for _, prov := range []Provisioning{
		PasskeyProvisioning{CredentialID: "cred-1"},
		NFCProvisioning{UID: "04a224b2c35e80"},
		ImportProvisioning{},
	} {
		t.Run(string(prov.Source()), func(t *testing.T) {
			assert.NoError(t, v.Validate(validKeystore(prov, now.Unix()-60)))
		})
	}
}

func TestValidate_CreatedAtNowPasses(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	err := fixedValidator(now).Validate(validKeystore(ImportProvisioning{}, now.Unix()))

	assert.NoError(t, err)
}

func TestValidate_CreatedAtNowPassesWallClock(t *testing.T) {
	err := Validate(validKeystore(ImportProvisioning{}, time.Now().Unix()))

	assert.NoError(t, err)
}

func TestValidate_NegativeCreatedAt(t *testing.T) {
	err := Validate(validKeystore(ImportProvisioning{}, -1))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "createdAt", ve.Field)
	assert.Equal(t, "INVALID_TIMESTAMP", ve.Code())
}

func TestValidate_FutureCreatedAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := fixedValidator(now)

	withinSkew := now.Add(DefaultMaxClockSkew).Unix()
	assert.NoError(t, v.Validate(validKeystore(ImportProvisioning{}, withinSkew)))

	beyondSkew := withinSkew + 1
	assert.ErrorIs(t, v.Validate(validKeystore(ImportProvisioning{}, beyondSkew)), ErrInvalidTimestamp)
}

func TestValidate_ZeroCreatedAtPasses(t *testing.T) {
	assert.NoError(t, Validate(validKeystore(ImportProvisioning{}, 0)))
}

func TestValidate_Address(t *testing.T) {
	k := validKeystore(ImportProvisioning{}, 0)
	k.Address = ""
	assert.ErrorIs(t, Validate(k), ErrInvalidAddressFormat)

	k.Address = "not-an-address"
	assert.ErrorIs(t, Validate(k), ErrInvalidAddressFormat)
}

func TestValidate_Payload(t *testing.T) {
	k := validKeystore(ImportProvisioning{}, 0)
	k.EncryptedPrivateKey = "ab12:cd34"

	err := Validate(k)

	assert.ErrorIs(t, err, ErrInvalidEncryptedPayloadFormat)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "encryptedPrivateKey", ve.Field)
}

func TestValidate_MissingProvisioning(t *testing.T) {
	err := Validate(validKeystore(nil, 0))

	assert.ErrorIs(t, err, ErrInconsistentSourceFields)
}

func TestValidate_EmptyAuxiliaryField(t *testing.T) {
	assert.ErrorIs(t, Validate(validKeystore(PasskeyProvisioning{}, 0)), ErrInconsistentSourceFields)
	assert.ErrorIs(t, Validate(validKeystore(NFCProvisioning{}, 0)), ErrInconsistentSourceFields)
}

func TestValidate_ReportsFirstFailingField(t *testing.T) {
	k := LocalKeystore{Address: "", EncryptedPrivateKey: "bad", CreatedAt: -1}

	err := Validate(k)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "address", ve.Field)
}

func TestNewProvisioning(t *testing.T) {
	cases := []struct {
		name         string
		source       WalletSource
		credentialID string
		nfcUID       string
		want         Provisioning
		wantField    string
	}{
		{name: "passkey", source: WalletSourcePasskey, credentialID: "c", want: PasskeyProvisioning{CredentialID: "c"}},
		{name: "nfc", source: WalletSourceNFC, nfcUID: "u", want: NFCProvisioning{UID: "u"}},
		{name: "import", source: WalletSourceImport, want: ImportProvisioning{}},
		{name: "passkey with nfc uid", source: WalletSourcePasskey, credentialID: "c", nfcUID: "u", wantField: "nfcUID"},
		{name: "passkey without credential", source: WalletSourcePasskey, wantField: "credentialId"},
		{name: "nfc with credential", source: WalletSourceNFC, credentialID: "c", nfcUID: "u", wantField: "credentialId"},
		{name: "nfc without uid", source: WalletSourceNFC, wantField: "nfcUID"},
		{name: "import with credential", source: WalletSourceImport, credentialID: "c", wantField: "credentialId"},
		{name: "import with nfc uid", source: WalletSourceImport, nfcUID: "u", wantField: "nfcUID"},
		{name: "unknown", source: "ledger", wantField: "source"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewProvisioning(tc.source, tc.credentialID, tc.nfcUID)
			if tc.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}
			require.ErrorIs(t, err, ErrInconsistentSourceFields)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tc.wantField, ve.Field)
		})
	}
}

func TestLocalKeystore_JSON(t *testing.T) {
	k := validKeystore(PasskeyProvisioning{CredentialID: "cred-1"}, 1_700_000_000)

	data, err := json.Marshal(k)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"address": "0x52908400098527886E0F7030069857D2E4169EE7",
		"encryptedPrivateKey": "ab12:cd34:ef5678",
		"source": "passkey",
		"credentialId": "cred-1",
		"createdAt": 1700000000
	}`, string(data))

	var decoded LocalKeystore
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, k, decoded)
}

func TestLocalKeystore_JSONOmitsForeignFields(t *testing.T) {
	data, err := json.Marshal(validKeystore(ImportProvisioning{}, 1))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "credentialId")
	assert.NotContains(t, string(data), "nfcUID")
}

func TestLocalKeystore_UnmarshalPasskeyWithNFCUIDFails(t *testing.T) {
	var k LocalKeystore
	err := json.Unmarshal([]byte(`{
		"address": "0x52908400098527886E0F7030069857D2E4169EE7",
		"encryptedPrivateKey": "ab12:cd34:ef5678",
		"source": "passkey",
		"credentialId": "cred-1",
		"nfcUID": "04a224b2c35e80",
		"createdAt": 1
	}`), &k)

	assert.ErrorIs(t, err, ErrInconsistentSourceFields)
}

func TestLocalKeystore_UnmarshalImportWithAuxiliaryFails(t *testing.T) {
	for _, extra := range []string{`"credentialId": "c"`, `"nfcUID": "u"`} {
		var k LocalKeystore
		err := json.Unmarshal([]byte(`{
			"address": "0x52908400098527886E0F7030069857D2E4169EE7",
			"encryptedPrivateKey": "ab12:cd34:ef5678",
			"source": "import",
			`+extra+`,
			"createdAt": 1
		}`), &k)

		assert.ErrorIs(t, err, ErrInconsistentSourceFields, extra)
	}
}

func TestLocalKeystore_Accessors(t *testing.T) {
	k := validKeystore(NFCProvisioning{UID: "04a2"}, 0)

	assert.Equal(t, WalletSourceNFC, k.Source())
	uid, ok := k.NFCUID()
	assert.True(t, ok)
	assert.Equal(t, "04a2", uid)
	_, ok = k.CredentialID()
	assert.False(t, ok)

	payload, err := k.Payload()
	require.NoError(t, err)
	assert.Equal(t, "cd34", payload.Tag)
}

func TestValidate_TypedNilProvisioning(t *testing.T) {
	for _, prov := range []Provisioning{
		(*PasskeyProvisioning)(nil),
		(*NFCProvisioning)(nil),
		(*ImportProvisioning)(nil),
	} {
		k := validKeystore(prov, 0)

		require.NotPanics(t, func() {
			err := Validate(k)
			assert.ErrorIs(t, err, ErrInconsistentSourceFields)
		})
		assert.Equal(t, WalletSource(""), k.Source())
		_, ok := k.CredentialID()
		assert.False(t, ok)
		_, ok = k.NFCUID()
		assert.False(t, ok)
		_, err := json.Marshal(k)
		assert.Error(t, err)
	}
}

func TestValidate_PointerProvisioning(t *testing.T) {
	k := validKeystore(&PasskeyProvisioning{CredentialID: "cred-1"}, 0)

	require.NoError(t, Validate(k))
	id, ok := k.CredentialID()
	assert.True(t, ok)
	assert.Equal(t, "cred-1", id)
}

func TestValidateStored_IgnoresPolicy(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	strict := fixedValidator(now)
	strict.Bech32Prefixes = []string{"cosmos"}

	bech := validKeystore(ImportProvisioning{}, now.Unix())
	bech.Address = bech32Address(t, "init")
	future := validKeystore(ImportProvisioning{}, now.Add(time.Hour).Unix())

	assert.Error(t, strict.Validate(bech))
	assert.Error(t, strict.Validate(future))
	assert.NoError(t, ValidateStored(bech))
	assert.NoError(t, ValidateStored(future))
}

func TestValidateStored_RejectsBrokenRecords(t *testing.T) {
	badAddress := validKeystore(ImportProvisioning{}, 0)
	badAddress.Address = "0x123"
	badPayload := validKeystore(ImportProvisioning{}, 0)
	badPayload.EncryptedPrivateKey = "ab12:cd34"

	assert.ErrorIs(t, ValidateStored(badAddress), ErrInvalidAddressFormat)
	assert.ErrorIs(t, ValidateStored(badPayload), ErrInvalidEncryptedPayloadFormat)
	assert.ErrorIs(t, ValidateStored(validKeystore(nil, 0)), ErrInconsistentSourceFields)
	assert.ErrorIs(t, ValidateStored(validKeystore(ImportProvisioning{}, -1)), ErrInvalidTimestamp)
}
