package handlers

var StatusFromError = statusFromError
