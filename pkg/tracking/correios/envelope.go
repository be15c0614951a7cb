package correios

import (
	"github.com/beevik/etree"
)

const (
	soapEnvNS      = "http://schemas.xmlsoap.org/soap/envelope/"
	resourceNS     = "http://resource.webservice.correios.com.br/"
	soapEnvPrefix  = "soapenv"
	resourcePrefix = "res"
)

// Service actions.
const (
	ActionFetchEvents     = "buscaEventos"
	ActionFetchEventsList = "buscaEventosLista"
)

// BuildEnvelope serializes a tracking request for action into a SOAP envelope.
// The code is sent as-is; it is only XML-escaped.
func BuildEnvelope(action string, creds Credentials, params QueryParameters, code string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement(soapEnvPrefix + ":Envelope")
	env.CreateAttr("xmlns:"+soapEnvPrefix, soapEnvNS)
	env.CreateAttr("xmlns:"+resourcePrefix, resourceNS)

	env.CreateElement(soapEnvPrefix + ":Header")
	body := env.CreateElement(soapEnvPrefix + ":Body")

	call := body.CreateElement(resourcePrefix + ":" + action)
	call.CreateElement("usuario").SetText(creds.Username)
	call.CreateElement("senha").SetText(creds.Password)
	call.CreateElement("tipo").SetText(params.Type.Token())
	call.CreateElement("resultado").SetText(params.Scope.Token())
	call.CreateElement("lingua").SetText(params.Language.Token())
	call.CreateElement("objetos").SetText(code)

	return doc.WriteToBytes()
}
