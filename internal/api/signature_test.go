package api

import "testing"

func TestVerifySignature(t *testing.T) {
	secret := "topsecret"
	body := []byte(`{"order_id":"ord-1","status":"completed"}`)

	sig := SignBody(secret, body)

	if !VerifySignature(secret, body, sig) {
		t.Error("валидная подпись не прошла проверку")
	}

	// Префикс sha256= допустим.
	if !VerifySignature(secret, body, "sha256="+sig) {
		t.Error("подпись с префиксом sha256= не прошла проверку")
	}
}

func TestVerifySignature_Rejects(t *testing.T) {
	secret := "topsecret"
	body := []byte(`{"order_id":"ord-1"}`)
	sig := SignBody(secret, body)

	// Другой секрет.
	if VerifySignature("othersecret", body, sig) {
		t.Error("подпись с чужим секретом прошла проверку")
	}

	// Изменённое тело.
	if VerifySignature(secret, []byte(`{"order_id":"ord-2"}`), sig) {
		t.Error("подпись изменённого тела прошла проверку")
	}

	// Мусор вместо hex.
	if VerifySignature(secret, body, "not-a-hex-string") {
		t.Error("невалидный hex прошёл проверку")
	}

	if VerifySignature(secret, body, "") {
		t.Error("пустая подпись прошла проверку")
	}
}
